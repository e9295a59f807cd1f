package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
	"github.com/pkordes/pfscgen/internal/repo"
)

// ExportService stores rendered documents for later download.
type ExportService struct {
	exports repo.ExportRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(exports repo.ExportRepo) *ExportService {
	return &ExportService{exports: exports}
}

// Create validates and stores config. Blank text and placeholder or error
// text are rejected with domain.ErrValidation.
func (s *ExportService) Create(ctx context.Context, config string) (domain.Export, error) {
	if strings.TrimSpace(config) == "" {
		return domain.Export{}, fmt.Errorf("service.ExportService.Create: %w: config is required", domain.ErrValidation)
	}
	if !domain.Exportable(config) {
		return domain.Export{}, fmt.Errorf("service.ExportService.Create: %w: config is not exportable", domain.ErrValidation)
	}

	return s.exports.Create(ctx, domain.Export{
		Filename:    domain.ExportFilename,
		ContentType: domain.ExportContentType,
		Config:      config,
	})
}

// Get returns a stored export.
func (s *ExportService) Get(ctx context.Context, id uuid.UUID) (domain.Export, error) {
	return s.exports.GetByID(ctx, id)
}
