package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

const promptColumns = `id, text, version, description, parent_id, created_at, updated_at`

// InsertPrompt persists a new prompt row. Timestamps are assigned by the
// database and written back onto p.
func (s *Store) InsertPrompt(ctx context.Context, p *models.Prompt) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.conn(ctx).QueryRow(ctx,
		`INSERT INTO prompts (id, text, version, description, parent_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		p.ID, p.Text, p.Version, p.Description, p.ParentID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

func (s *Store) GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	row := s.conn(ctx).QueryRow(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)
	return scanPrompt(row, "get prompt")
}

// GetPromptForUpdate reads a prompt under a row lock. Must run inside
// WithTx; concurrent updaters serialize on the lock so no version
// increment can be lost.
func (s *Store) GetPromptForUpdate(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	row := s.conn(ctx).QueryRow(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1 FOR UPDATE`, id)
	return scanPrompt(row, "get prompt for update")
}

// SavePrompt writes the mutable prompt fields and refreshes updated_at.
func (s *Store) SavePrompt(ctx context.Context, p *models.Prompt) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.conn(ctx).QueryRow(ctx,
		`UPDATE prompts
		 SET text = $2, version = $3, description = $4, parent_id = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		p.ID, p.Text, p.Version, p.Description, p.ParentID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return wrapNotFound("save prompt", err)
	}
	return nil
}

// ListPrompts returns one page ordered newest first (id breaks ties so
// pagination is deterministic) together with the total row count.
func (s *Store) ListPrompts(ctx context.Context, offset, limit int) ([]models.Prompt, int, error) {
	if err := normalizePage(offset, limit); err != nil {
		return nil, 0, err
	}
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var total int
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prompts: %w", err)
	}

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+promptColumns+` FROM prompts
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]models.Prompt, 0, limit)
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Text, &p.Version, &p.Description, &p.ParentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, total, rows.Err()
}

func (s *Store) PromptExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var exists bool
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM prompts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("prompt exists: %w", err)
	}
	return exists, nil
}

// IsAncestor reports whether candidate appears in the parent chain of id,
// id itself included. Used to reject parent links that would close a cycle.
func (s *Store) IsAncestor(ctx context.Context, candidate, id uuid.UUID) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var found bool
	err := s.conn(ctx).QueryRow(ctx,
		`WITH RECURSIVE chain AS (
			SELECT id, parent_id FROM prompts WHERE id = $1
			UNION ALL
			SELECT p.id, p.parent_id FROM prompts p JOIN chain c ON p.id = c.parent_id
		 )
		 SELECT EXISTS(SELECT 1 FROM chain WHERE id = $2)`,
		id, candidate,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("ancestor check: %w", err)
	}
	return found, nil
}

func scanPrompt(row pgx.Row, op string) (*models.Prompt, error) {
	var p models.Prompt
	err := row.Scan(&p.ID, &p.Text, &p.Version, &p.Description, &p.ParentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return &p, nil
}
