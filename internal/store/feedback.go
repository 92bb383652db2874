package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

// feedbackJoin is the three-hop join that ties a feedback row back to its
// prompt: Feedback -> Response -> PromptInstance -> Prompt.
const feedbackJoin = `
	FROM feedback f
	JOIN responses r ON f.response_id = r.id
	JOIN prompt_instances i ON r.prompt_instance_id = i.id
	WHERE i.prompt_id = $1`

func (s *Store) InsertFeedback(ctx context.Context, f *models.Feedback) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.conn(ctx).QueryRow(ctx,
		`INSERT INTO feedback (id, response_id, score)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		f.ID, f.ResponseID, f.Score,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListFeedbackByPrompt pages through every feedback row reachable from the
// prompt via the three-hop join, newest first, with the total count.
func (s *Store) ListFeedbackByPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.Feedback, int, error) {
	if err := normalizePage(offset, limit); err != nil {
		return nil, 0, err
	}
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var total int
	err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+feedbackJoin, promptID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT f.id, f.response_id, f.score, f.created_at`+feedbackJoin+`
		 ORDER BY f.created_at DESC, f.id DESC
		 LIMIT $2 OFFSET $3`,
		promptID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	items := make([]models.Feedback, 0, limit)
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.ResponseID, &f.Score, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, f)
	}
	return items, total, rows.Err()
}

// FeedbackTotals returns the count and arithmetic mean of all scores
// attached to the prompt. The average is exactly 0 when no feedback
// exists; the readiness evaluator depends on that.
func (s *Store) FeedbackTotals(ctx context.Context, promptID uuid.UUID) (int, float64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var total int
	var avg float64
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(f.score), 0)`+feedbackJoin, promptID,
	).Scan(&total, &avg)
	if err != nil {
		return 0, 0, fmt.Errorf("feedback totals: %w", err)
	}
	return total, avg, nil
}

// RecentScores returns up to limit most recent scores for the prompt,
// newest first.
func (s *Store) RecentScores(ctx context.Context, promptID uuid.UUID, limit int) ([]float64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.conn(ctx).Query(ctx,
		`SELECT f.score`+feedbackJoin+`
		 ORDER BY f.created_at DESC, f.id DESC
		 LIMIT $2`,
		promptID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent scores: %w", err)
	}
	defer rows.Close()

	scores := make([]float64, 0, limit)
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
