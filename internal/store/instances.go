package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

const instanceColumns = `id, prompt_id, formatted_text, context, created_at`

// InsertInstance persists a new prompt instance. The caller is responsible
// for verifying the owning prompt exists within the same transaction.
func (s *Store) InsertInstance(ctx context.Context, inst *models.PromptInstance) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.conn(ctx).QueryRow(ctx,
		`INSERT INTO prompt_instances (id, prompt_id, formatted_text, context)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		inst.ID, inst.PromptID, inst.FormattedText, inst.Context,
	).Scan(&inst.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert instance: %w", err)
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, id uuid.UUID) (*models.PromptInstance, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var inst models.PromptInstance
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT `+instanceColumns+` FROM prompt_instances WHERE id = $1`, id,
	).Scan(&inst.ID, &inst.PromptID, &inst.FormattedText, &inst.Context, &inst.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get instance", err)
	}
	return &inst, nil
}

func (s *Store) InstanceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var exists bool
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM prompt_instances WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("instance exists: %w", err)
	}
	return exists, nil
}

// ListInstancesByPrompt returns one page of a prompt's instances, newest
// first, with the total count.
func (s *Store) ListInstancesByPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.PromptInstance, int, error) {
	if err := normalizePage(offset, limit); err != nil {
		return nil, 0, err
	}
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var total int
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prompt_instances WHERE prompt_id = $1`, promptID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count instances: %w", err)
	}

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+instanceColumns+` FROM prompt_instances
		 WHERE prompt_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		promptID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	items := make([]models.PromptInstance, 0, limit)
	for rows.Next() {
		var inst models.PromptInstance
		if err := rows.Scan(&inst.ID, &inst.PromptID, &inst.FormattedText, &inst.Context, &inst.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan instance: %w", err)
		}
		items = append(items, inst)
	}
	return items, total, rows.Err()
}
