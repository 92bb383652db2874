package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

const responseColumns = `id, prompt_instance_id, content, metadata, created_at`

func (s *Store) InsertResponse(ctx context.Context, r *models.Response) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.conn(ctx).QueryRow(ctx,
		`INSERT INTO responses (id, prompt_instance_id, content, metadata)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		r.ID, r.PromptInstanceID, r.Content, r.Metadata,
	).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *Store) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var r models.Response
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE id = $1`, id,
	).Scan(&r.ID, &r.PromptInstanceID, &r.Content, &r.Metadata, &r.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get response", err)
	}
	return &r, nil
}

func (s *Store) ResponseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var exists bool
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM responses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("response exists: %w", err)
	}
	return exists, nil
}

// ListResponsesByInstance returns one page of an instance's responses,
// newest first, with the total count.
func (s *Store) ListResponsesByInstance(ctx context.Context, instanceID uuid.UUID, offset, limit int) ([]models.Response, int, error) {
	if err := normalizePage(offset, limit); err != nil {
		return nil, 0, err
	}
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var total int
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE prompt_instance_id = $1`, instanceID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count responses: %w", err)
	}

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+responseColumns+` FROM responses
		 WHERE prompt_instance_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		instanceID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	items := make([]models.Response, 0, limit)
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.ID, &r.PromptInstanceID, &r.Content, &r.Metadata, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan response: %w", err)
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}
