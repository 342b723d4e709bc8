package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// ArtifactRepository is the Postgres ledger shared by the console and the
// queue worker.
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository constructs a repository.
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

const artifactColumns = `id, kind, source_id, source_url, file_name, object_key, location, status, error_message, created_at, updated_at`

// Create inserts a queued artifact before rendering begins.
func (r *ArtifactRepository) Create(ctx context.Context, a *model.Artifact) error {
	now := time.Now().UTC()
	a.Status = model.ArtifactQueued
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO artifacts (`+artifactColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,NULL,$7,NULL,$8,$9)
	`, a.ID, a.Kind, a.SourceID, a.SourceURL, a.FileName, a.ObjectKey, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (*model.Artifact, error) {
	var (
		a        model.Artifact
		location sql.NullString
		errorMsg sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Kind, &a.SourceID, &a.SourceURL, &a.FileName, &a.ObjectKey, &location, &a.Status, &errorMsg, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Location = location.String
	a.ErrorMessage = errorMsg.String
	return &a, nil
}

// Get returns an artifact by id.
func (r *ArtifactRepository) Get(ctx context.Context, id string) (*model.Artifact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+artifactColumns+` FROM artifacts WHERE id=$1`, id)
	a, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, export.ErrNotFound)
		}
		return nil, fmt.Errorf("select artifact: %w", err)
	}
	return a, nil
}

// List returns every artifact, newest first.
func (r *ArtifactRepository) List(ctx context.Context) ([]model.Artifact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+artifactColumns+` FROM artifacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()
	var out []model.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// MarkRendering sets the status to rendering.
func (r *ArtifactRepository) MarkRendering(ctx context.Context, id string) error {
	return r.updateStatus(ctx, id, model.ArtifactRendering, nil, nil)
}

// MarkFailed marks the export as failed and stores the message.
func (r *ArtifactRepository) MarkFailed(ctx context.Context, id string, msg string) error {
	return r.updateStatus(ctx, id, model.ArtifactFailed, nil, &msg)
}

// MarkCompleted stores where the rendered PDF was written.
func (r *ArtifactRepository) MarkCompleted(ctx context.Context, id, location string) error {
	return r.updateStatus(ctx, id, model.ArtifactCompleted, &location, nil)
}

func (r *ArtifactRepository) updateStatus(ctx context.Context, id string, status model.ArtifactStatus, location *string, errorMsg *string) error {
	now := time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE artifacts
		SET status=$1,
			location = COALESCE($2, location),
			error_message = $3,
			updated_at=$4
		WHERE id=$5
	`, status, location, errorMsg, now, id)
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", id, export.ErrNotFound)
	}
	return nil
}
