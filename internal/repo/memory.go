package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
)

// memExportRepo keeps exports in process memory. Contents are lost on restart.
type memExportRepo struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]domain.Export
	now     func() time.Time
}

// NewMemoryExportRepo returns an ExportRepo that needs no database.
func NewMemoryExportRepo() ExportRepo {
	return &memExportRepo{
		exports: make(map[uuid.UUID]domain.Export),
		now:     time.Now,
	}
}

func (r *memExportRepo) Create(_ context.Context, e domain.Export) (domain.Export, error) {
	e.ID = uuid.New()
	e.CreatedAt = r.now().UTC()

	r.mu.Lock()
	r.exports[e.ID] = e
	r.mu.Unlock()
	return e, nil
}

func (r *memExportRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exports[id]
	if !ok {
		return domain.Export{}, fmt.Errorf("repo.ExportRepo.GetByID: %w", domain.ErrNotFound)
	}
	return e, nil
}
