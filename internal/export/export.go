// Package export dumps the entity tables for admins: the whole graph as
// one JSON document, or a single table as CSV.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/promptcraft/promptcraft-api/internal/models"
	"github.com/promptcraft/promptcraft-api/internal/store"
)

// Store is the dump slice of the entity store.
type Store interface {
	DumpPrompts(ctx context.Context) ([]models.Prompt, error)
	DumpInstances(ctx context.Context) ([]models.PromptInstance, error)
	DumpResponses(ctx context.Context) ([]models.Response, error)
	DumpFeedback(ctx context.Context) ([]models.Feedback, error)
}

// Snapshot holds every row of the four tables, oldest first.
type Snapshot struct {
	Prompts   []models.Prompt         `json:"prompts"`
	Instances []models.PromptInstance `json:"instances"`
	Responses []models.Response       `json:"responses"`
	Feedback  []models.Feedback       `json:"feedback"`
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	prompts, err := s.store.DumpPrompts(ctx)
	if err != nil {
		return nil, err
	}
	instances, err := s.store.DumpInstances(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.DumpResponses(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.store.DumpFeedback(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Prompts:   prompts,
		Instances: instances,
		Responses: responses,
		Feedback:  feedback,
	}, nil
}

// WriteJSON streams the full snapshot as indented JSON.
func (s *Service) WriteJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteCSV streams one table as CSV. Valid tables: prompts,
// prompt_instances, responses, feedback.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, table string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	switch table {
	case "prompts":
		rows, err := s.store.DumpPrompts(ctx)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "text", "version", "description", "parent_id", "created_at", "updated_at"}); err != nil {
			return err
		}
		for _, p := range rows {
			parent := ""
			if p.ParentID != nil {
				parent = p.ParentID.String()
			}
			if err := cw.Write([]string{
				p.ID.String(), p.Text, strconv.Itoa(p.Version), p.Description, parent,
				p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano),
			}); err != nil {
				return err
			}
		}
	case "prompt_instances":
		rows, err := s.store.DumpInstances(ctx)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "prompt_id", "formatted_text", "context", "created_at"}); err != nil {
			return err
		}
		for _, inst := range rows {
			if err := cw.Write([]string{
				inst.ID.String(), inst.PromptID.String(), inst.FormattedText,
				string(inst.Context), inst.CreatedAt.Format(time.RFC3339Nano),
			}); err != nil {
				return err
			}
		}
	case "responses":
		rows, err := s.store.DumpResponses(ctx)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "prompt_instance_id", "content", "metadata", "created_at"}); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{
				r.ID.String(), r.PromptInstanceID.String(), r.Content,
				string(r.Metadata), r.CreatedAt.Format(time.RFC3339Nano),
			}); err != nil {
				return err
			}
		}
	case "feedback":
		rows, err := s.store.DumpFeedback(ctx)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "response_id", "score", "created_at"}); err != nil {
			return err
		}
		for _, f := range rows {
			if err := cw.Write([]string{
				f.ID.String(), f.ResponseID.String(),
				strconv.FormatFloat(f.Score, 'f', -1, 64), f.CreatedAt.Format(time.RFC3339Nano),
			}); err != nil {
				return err
			}
		}
	default:
		return store.Invalid("table", fmt.Sprintf("unknown table %q", table))
	}
	return nil
}
