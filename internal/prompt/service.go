package prompt

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/models"
	"github.com/promptcraft/promptcraft-api/internal/store"
)

const (
	maxTextLen          = 10_000
	maxDescriptionLen   = 500
	maxFormattedTextLen = 50_000
)

// Store is the slice of the entity store the lifecycle manager needs.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	InsertPrompt(ctx context.Context, p *models.Prompt) error
	GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	GetPromptForUpdate(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	SavePrompt(ctx context.Context, p *models.Prompt) error
	ListPrompts(ctx context.Context, offset, limit int) ([]models.Prompt, int, error)
	PromptExists(ctx context.Context, id uuid.UUID) (bool, error)
	IsAncestor(ctx context.Context, candidate, id uuid.UUID) (bool, error)
	InsertInstance(ctx context.Context, inst *models.PromptInstance) error
	ListInstancesByPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.PromptInstance, int, error)
}

// Service creates and versions prompts and records their instances.
type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

type CreateRequest struct {
	Text        string     `json:"text"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Prompt, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if len(req.Description) > maxDescriptionLen {
		return nil, store.Invalid("description", "exceeds 500 characters")
	}

	p := &models.Prompt{
		ID:          uuid.New(),
		Text:        req.Text,
		Version:     1,
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if req.ParentID != nil {
			exists, err := s.store.PromptExists(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if !exists {
				return store.ErrNotFound
			}
		}
		return s.store.InsertPrompt(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	return s.store.GetPrompt(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.Prompt, int, error) {
	var items []models.Prompt
	var total int
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.store.ListPrompts(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateRequest carries the fields to change; nil means "leave as is".
type UpdateRequest struct {
	Text        *string    `json:"text,omitempty"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

// Update applies the provided fields under a row lock. The version bumps
// by exactly one if and only if new text differs from the current text;
// updated_at refreshes on every successful update, including no-ops.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Prompt, error) {
	if req.Text != nil {
		if err := validateText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.Description != nil && len(*req.Description) > maxDescriptionLen {
		return nil, store.Invalid("description", "exceeds 500 characters")
	}

	var updated *models.Prompt
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.store.GetPromptForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if req.Text != nil && *req.Text != p.Text {
			p.Version++
			p.Text = *req.Text
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.ParentID != nil {
			exists, err := s.store.PromptExists(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if !exists {
				return store.ErrNotFound
			}
			cyclic, err := s.store.IsAncestor(ctx, id, *req.ParentID)
			if err != nil {
				return err
			}
			if cyclic {
				return store.Invalid("parent_id", "would make the prompt its own ancestor")
			}
			p.ParentID = req.ParentID
		}

		if err := s.store.SavePrompt(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type InstanceRequest struct {
	FormattedText string          `json:"formatted_text"`
	Context       json.RawMessage `json:"context,omitempty"`
}

// AddInstance records one concrete usage of the prompt. Fails with
// ErrNotFound when the prompt does not exist; nothing is persisted then.
func (s *Service) AddInstance(ctx context.Context, promptID uuid.UUID, req InstanceRequest) (*models.PromptInstance, error) {
	if req.FormattedText == "" {
		return nil, store.Invalid("formatted_text", "must not be empty")
	}
	if len(req.FormattedText) > maxFormattedTextLen {
		return nil, store.Invalid("formatted_text", "exceeds 50000 characters")
	}

	inst := &models.PromptInstance{
		ID:            uuid.New(),
		PromptID:      promptID,
		FormattedText: req.FormattedText,
		Context:       req.Context,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.PromptExists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return s.store.InsertInstance(ctx, inst)
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Service) ListInstances(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.PromptInstance, int, error) {
	var items []models.PromptInstance
	var total int
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.PromptExists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		items, total, err = s.store.ListInstancesByPrompt(ctx, promptID, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func validateText(text string) error {
	if text == "" {
		return store.Invalid("text", "must not be empty")
	}
	if len(text) > maxTextLen {
		return store.Invalid("text", "exceeds 10000 characters")
	}
	return nil
}
