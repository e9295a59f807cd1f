package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/pfscgen/internal/domain"
)

// GenerateResponse is the body of every POST /generate answer. Exactly one of
// Config and Error is set, depending on Success.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Config  string `json:"config,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Generate handles POST /generate.
// The body is a JSON array of {targets, labels} records; ?format=yaml selects
// YAML output. Failures are reported in the body with success=false so the
// editor can render them.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var formatParam *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &formatParam); err != nil {
		writeJSON(w, r, http.StatusBadRequest, GenerateResponse{Error: "invalid format parameter: " + err.Error()})
		return
	}
	format, err := domain.ParseFormat(derefString(formatParam))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, GenerateResponse{Error: unwrapMessage(err)})
		return
	}

	var records []domain.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, r, status, GenerateResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	config, err := s.generator.Generate(r.Context(), records, format)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, r, http.StatusBadRequest, GenerateResponse{Error: unwrapMessage(err)})
			return
		}
		slog.ErrorContext(r.Context(), "generate config", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, GenerateResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, r, http.StatusOK, GenerateResponse{Success: true, Config: config})
}

// derefString returns the pointed-to string, or "" for nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
