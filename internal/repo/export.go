// Package repo contains all storage logic for exported configuration documents.
// ExportRepo has a Postgres implementation and an in-memory one used when no
// database is configured. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/pfscgen/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ExportRepo defines the persistence operations for exports.
type ExportRepo interface {
	// Create stores an export and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, e domain.Export) (domain.Export, error)

	// GetByID returns one export. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Export, error)
}

// pgExportRepo is the Postgres implementation of ExportRepo.
type pgExportRepo struct {
	db db
}

// NewExportRepo constructs an ExportRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewExportRepo(db db) ExportRepo {
	return &pgExportRepo{db: db}
}

// Create inserts an export row and returns the persisted record.
func (r *pgExportRepo) Create(ctx context.Context, e domain.Export) (domain.Export, error) {
	const q = `
		INSERT INTO exports (filename, content_type, config)
		VALUES (@filename, @content_type, @config)
		RETURNING id, filename, content_type, config, created_at`

	args := pgx.NamedArgs{
		"filename":     e.Filename,
		"content_type": e.ContentType,
		"config":       e.Config,
	}

	result, err := scanExport(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Export{}, fmt.Errorf("repo.ExportRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an export by primary key.
func (r *pgExportRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Export, error) {
	const q = `
		SELECT id, filename, content_type, config, created_at
		FROM exports
		WHERE id = @id`

	result, err := scanExport(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Export{}, fmt.Errorf("repo.ExportRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanExport maps a single row into a domain.Export.
func scanExport(row pgx.Row) (domain.Export, error) {
	var (
		e  domain.Export
		id pgtype.UUID
	)

	err := row.Scan(&id, &e.Filename, &e.ContentType, &e.Config, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Export{}, domain.ErrNotFound
		}
		return domain.Export{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	return e, nil
}
