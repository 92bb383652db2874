package store

import (
	"context"
	"fmt"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

// TableCounts returns the row count of each entity table, keyed by table
// name. Used by health diagnostics.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	counts := make(map[string]int, 4)
	for _, table := range []string{"prompts", "prompt_instances", "responses", "feedback"} {
		var n int
		// table names are from the fixed list above, never caller input
		err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// DumpPrompts returns every prompt row, oldest first. Export only; not a
// paginated read path.
func (s *Store) DumpPrompts(ctx context.Context) ([]models.Prompt, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+promptColumns+` FROM prompts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("dump prompts: %w", err)
	}
	defer rows.Close()

	var items []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Text, &p.Version, &p.Description, &p.ParentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *Store) DumpInstances(ctx context.Context) ([]models.PromptInstance, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+instanceColumns+` FROM prompt_instances ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("dump instances: %w", err)
	}
	defer rows.Close()

	var items []models.PromptInstance
	for rows.Next() {
		var inst models.PromptInstance
		if err := rows.Scan(&inst.ID, &inst.PromptID, &inst.FormattedText, &inst.Context, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		items = append(items, inst)
	}
	return items, rows.Err()
}

func (s *Store) DumpResponses(ctx context.Context) ([]models.Response, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+responseColumns+` FROM responses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("dump responses: %w", err)
	}
	defer rows.Close()

	var items []models.Response
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.ID, &r.PromptInstanceID, &r.Content, &r.Metadata, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (s *Store) DumpFeedback(ctx context.Context) ([]models.Feedback, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT id, response_id, score, created_at FROM feedback ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("dump feedback: %w", err)
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.ResponseID, &f.Score, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
