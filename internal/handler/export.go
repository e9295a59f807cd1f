package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/pfscgen/internal/domain"
)

// CreateExportRequest is the body of POST /exports.
type CreateExportRequest struct {
	Config string `json:"config"`
}

// ExportResponse describes a stored export.
type ExportResponse struct {
	ID        openapi_types.UUID `json:"id"`
	Filename  string             `json:"filename"`
	CreatedAt time.Time          `json:"created_at"`
}

// CreateExport handles POST /exports.
func (s *Server) CreateExport(w http.ResponseWriter, r *http.Request) {
	var body CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, tooLargeBody())
			return
		}
		writeJSON(w, r, http.StatusBadRequest, requestBody("invalid request body: "+err.Error()))
		return
	}

	exp, err := s.exports.Create(r.Context(), body.Config)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		slog.ErrorContext(r.Context(), "create export", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, internalBody())
		return
	}

	writeJSON(w, r, http.StatusCreated, exportToResponse(exp))
}

// GetExport handles GET /exports/{exportId}.
// The stored document is returned as a file download.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "exportId", chi.URLParam(r, "exportId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, requestBody(fmt.Sprintf("invalid exportId: %s", err)))
		return
	}

	exp, err := s.exports.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, r, http.StatusNotFound, notFoundBody("export not found"))
			return
		}
		slog.ErrorContext(r.Context(), "get export", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, internalBody())
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(exp.Config))
}

// exportToResponse converts a domain.Export to its API representation.
func exportToResponse(e domain.Export) ExportResponse {
	return ExportResponse{
		ID:        e.ID,
		Filename:  e.Filename,
		CreatedAt: e.CreatedAt,
	}
}
