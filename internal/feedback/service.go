package feedback

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/models"
	"github.com/promptcraft/promptcraft-api/internal/store"
)

const maxContentLen = 100_000

// trendWindow is how many recent scores the stats carry.
const trendWindow = 5

// Store is the slice of the entity store the recorder needs.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	PromptExists(ctx context.Context, id uuid.UUID) (bool, error)
	InstanceExists(ctx context.Context, id uuid.UUID) (bool, error)
	ResponseExists(ctx context.Context, id uuid.UUID) (bool, error)
	InsertResponse(ctx context.Context, r *models.Response) error
	ListResponsesByInstance(ctx context.Context, instanceID uuid.UUID, offset, limit int) ([]models.Response, int, error)
	InsertFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedbackByPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.Feedback, int, error)
	FeedbackTotals(ctx context.Context, promptID uuid.UUID) (int, float64, error)
	RecentScores(ctx context.Context, promptID uuid.UUID, limit int) ([]float64, error)
}

// Service records responses and feedback scores and aggregates them per
// prompt through the three-hop join.
type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

type ResponseRequest struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// AddResponse records generated output against an instance. Not
// idempotent: a retry after an ambiguous failure may create a duplicate.
func (s *Service) AddResponse(ctx context.Context, instanceID uuid.UUID, req ResponseRequest) (*models.Response, error) {
	if req.Content == "" {
		return nil, store.Invalid("content", "must not be empty")
	}
	if len(req.Content) > maxContentLen {
		return nil, store.Invalid("content", "exceeds 100000 characters")
	}

	resp := &models.Response{
		ID:               uuid.New(),
		PromptInstanceID: instanceID,
		Content:          req.Content,
		Metadata:         req.Metadata,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.InstanceExists(ctx, instanceID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return s.store.InsertResponse(ctx, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) ListResponses(ctx context.Context, instanceID uuid.UUID, offset, limit int) ([]models.Response, int, error) {
	var items []models.Response
	var total int
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.InstanceExists(ctx, instanceID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		items, total, err = s.store.ListResponsesByInstance(ctx, instanceID, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AddFeedback attaches a score in [0, 1] to a response. The range check is
// inclusive on both ends.
func (s *Service) AddFeedback(ctx context.Context, responseID uuid.UUID, score float64) (*models.Feedback, error) {
	if score < 0.0 || score > 1.0 {
		return nil, store.Invalid("score", "must be between 0.0 and 1.0")
	}

	fb := &models.Feedback{
		ID:         uuid.New(),
		ResponseID: responseID,
		Score:      score,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.ResponseExists(ctx, responseID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return s.store.InsertFeedback(ctx, fb)
	})
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// ListForPrompt pages the prompt's feedback via the same join the stats
// use, so its total always agrees with Stats at the same point in time.
func (s *Service) ListForPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.Feedback, int, error) {
	var items []models.Feedback
	var total int
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.PromptExists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		items, total, err = s.store.ListFeedbackByPrompt(ctx, promptID, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats summarizes a prompt's feedback. AvgScore is exactly 0 when
// TotalFeedback is 0, never absent.
type Stats struct {
	PromptID      uuid.UUID `json:"prompt_id"`
	TotalFeedback int       `json:"total_feedback"`
	AvgScore      float64   `json:"avg_score"`
	LastScores    []float64 `json:"last_scores"`
	LastScore     *float64  `json:"last_score"`
}

// Stats computes the aggregate within one transactional scope, so the
// count, average and trend reflect a single snapshot.
func (s *Service) Stats(ctx context.Context, promptID uuid.UUID) (*Stats, error) {
	stats := &Stats{PromptID: promptID, LastScores: []float64{}}
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.PromptExists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}

		total, avg, err := s.store.FeedbackTotals(ctx, promptID)
		if err != nil {
			return err
		}
		stats.TotalFeedback = total
		stats.AvgScore = avg

		recent, err := s.store.RecentScores(ctx, promptID, trendWindow)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			stats.LastScores = recent
			stats.LastScore = &recent[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
