package readiness

import (
	"context"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/feedback"
)

// Defaults mirror the thresholds the optimization pipeline was tuned with.
const (
	DefaultMinSamples  = 5
	DefaultMaxAvgScore = 0.7
)

// Thresholds configures the readiness gate. MaxAvgScore is the average
// below which optimization is still considered worthwhile.
type Thresholds struct {
	MinSamples  int     `json:"min_samples"`
	MaxAvgScore float64 `json:"max_avg_score"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinSamples: DefaultMinSamples, MaxAvgScore: DefaultMaxAvgScore}
}

// Verdict is the readiness answer for one prompt, with the stats it was
// derived from.
type Verdict struct {
	PromptID   uuid.UUID       `json:"prompt_id"`
	Ready      bool            `json:"ready"`
	Reason     string          `json:"reason"`
	Stats      *feedback.Stats `json:"stats"`
	Thresholds Thresholds      `json:"thresholds"`
}

// StatsProvider is the aggregation read path the evaluator consumes.
type StatsProvider interface {
	Stats(ctx context.Context, promptID uuid.UUID) (*feedback.Stats, error)
}

// Evaluator applies the threshold policy over feedback stats.
type Evaluator struct {
	stats      StatsProvider
	thresholds Thresholds
}

func NewEvaluator(stats StatsProvider, t Thresholds) *Evaluator {
	if t.MinSamples <= 0 {
		t.MinSamples = DefaultMinSamples
	}
	if t.MaxAvgScore <= 0 {
		t.MaxAvgScore = DefaultMaxAvgScore
	}
	return &Evaluator{stats: stats, thresholds: t}
}

func (e *Evaluator) Evaluate(ctx context.Context, promptID uuid.UUID) (*Verdict, error) {
	stats, err := e.stats.Stats(ctx, promptID)
	if err != nil {
		return nil, err
	}
	ready, reason := Decide(stats, e.thresholds)
	return &Verdict{
		PromptID:   promptID,
		Ready:      ready,
		Reason:     reason,
		Stats:      stats,
		Thresholds: e.thresholds,
	}, nil
}

// Decide is the pure threshold policy. The boolean depends only on the
// sample count; the average-score threshold shapes the reason text but
// deliberately does not gate readiness. The reason checks run in a fixed
// order and the first match wins.
func Decide(stats *feedback.Stats, t Thresholds) (bool, string) {
	ready := stats.TotalFeedback >= t.MinSamples
	switch {
	case stats.TotalFeedback < t.MinSamples:
		return ready, "not enough feedback yet"
	case stats.AvgScore >= t.MaxAvgScore:
		return ready, "average score already high"
	default:
		return ready, "meets criteria"
	}
}
