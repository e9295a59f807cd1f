// Package handler implements the HTTP API of the formatting service.
// All handlers are methods on Server and are mounted by Routes. Methods are
// split into files by resource (health.go, generate.go, export.go).
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
)

// GenerateServicer renders records into a configuration document.
// Defined here, in the consumer package, so handler tests can inject a mock.
type GenerateServicer interface {
	Generate(ctx context.Context, records []domain.Record, format domain.Format) (string, error)
}

// ExportServicer stores and retrieves exported documents.
type ExportServicer interface {
	Create(ctx context.Context, config string) (domain.Export, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Export, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	generator GenerateServicer
	exports   ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(generator GenerateServicer, exports ExportServicer) *Server {
	return &Server{generator: generator, exports: exports}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes returns the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Post("/generate", s.Generate)
	r.Post("/exports", s.CreateExport)
	r.Get("/exports/{exportId}", s.GetExport)
	return r
}
