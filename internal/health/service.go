package health

import (
	"context"
)

// Store is the diagnostics slice of the entity store.
type Store interface {
	TableCounts(ctx context.Context) (map[string]int, error)
}

// Diagnostics is a lightweight snapshot of storage health.
type Diagnostics struct {
	Status      string         `json:"status"`
	TableCounts map[string]int `json:"table_counts"`
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Check runs a trivial query per entity table and reports the row counts.
func (s *Service) Check(ctx context.Context) (*Diagnostics, error) {
	counts, err := s.store.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Diagnostics{Status: "ok", TableCounts: counts}, nil
}
