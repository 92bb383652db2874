package prompt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcraft/promptcraft-api/internal/models"
	"github.com/promptcraft/promptcraft-api/internal/store"
)

// fakeStore is an in-memory stand-in for the persistence layer. WithTx
// runs the callback directly; transactional behavior is covered by the
// store tests.
type fakeStore struct {
	prompts   map[uuid.UUID]*models.Prompt
	instances []models.PromptInstance
}

func newFakeStore() *fakeStore {
	return &fakeStore{prompts: make(map[uuid.UUID]*models.Prompt)}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) InsertPrompt(ctx context.Context, p *models.Prompt) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	f.prompts[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	p, ok := f.prompts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetPromptForUpdate(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	return f.GetPrompt(ctx, id)
}

func (f *fakeStore) SavePrompt(ctx context.Context, p *models.Prompt) error {
	if _, ok := f.prompts[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	f.prompts[p.ID] = &cp
	return nil
}

func (f *fakeStore) ListPrompts(ctx context.Context, offset, limit int) ([]models.Prompt, int, error) {
	items := make([]models.Prompt, 0, len(f.prompts))
	for _, p := range f.prompts {
		items = append(items, *p)
	}
	return items, len(items), nil
}

func (f *fakeStore) PromptExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.prompts[id]
	return ok, nil
}

func (f *fakeStore) IsAncestor(ctx context.Context, candidate, id uuid.UUID) (bool, error) {
	cur := id
	for {
		if cur == candidate {
			return true, nil
		}
		p, ok := f.prompts[cur]
		if !ok || p.ParentID == nil {
			return false, nil
		}
		cur = *p.ParentID
	}
}

func (f *fakeStore) InsertInstance(ctx context.Context, inst *models.PromptInstance) error {
	inst.CreatedAt = time.Now()
	f.instances = append(f.instances, *inst)
	return nil
}

func (f *fakeStore) ListInstancesByPrompt(ctx context.Context, promptID uuid.UUID, offset, limit int) ([]models.PromptInstance, int, error) {
	var items []models.PromptInstance
	for _, inst := range f.instances {
		if inst.PromptID == promptID {
			items = append(items, inst)
		}
	}
	return items, len(items), nil
}

func TestCreatePrompt(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	p, err := svc.Create(context.Background(), CreateRequest{Text: "Summarize {{doc}}", Description: "summarizer"})
	require.NoError(t, err)

	assert.Equal(t, 1, p.Version)
	assert.Equal(t, "Summarize {{doc}}", p.Text)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreatePromptValidation(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"empty text", CreateRequest{Text: ""}},
		{"text too long", CreateRequest{Text: strings.Repeat("a", 10_001)}},
		{"description too long", CreateRequest{Text: "ok", Description: strings.Repeat("d", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.True(t, store.IsValidation(err), "want validation error, got %v", err)
		})
	}

	// boundary lengths are accepted
	_, err := svc.Create(context.Background(), CreateRequest{
		Text:        strings.Repeat("a", 10_000),
		Description: strings.Repeat("d", 500),
	})
	assert.NoError(t, err)
}

func TestCreatePromptMissingParent(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), CreateRequest{Text: "child", ParentID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, st.prompts, "nothing should persist on a failed create")
}

func TestUpdateVersionBumpsOnlyOnTextChange(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	p, err := svc.Create(context.Background(), CreateRequest{Text: "v1 text"})
	require.NoError(t, err)

	// same text: no bump
	same := "v1 text"
	got, err := svc.Update(context.Background(), p.ID, UpdateRequest{Text: &same})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	// description only: no bump
	desc := "new description"
	got, err = svc.Update(context.Background(), p.ID, UpdateRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "new description", got.Description)

	// changed text: bump by exactly one
	changed := "v2 text"
	got, err = svc.Update(context.Background(), p.ID, UpdateRequest{Text: &changed})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	changed = "v3 text"
	got, err = svc.Update(context.Background(), p.ID, UpdateRequest{Text: &changed})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	p, err := svc.Create(context.Background(), CreateRequest{Text: "stable"})
	require.NoError(t, err)
	before := p.UpdatedAt

	time.Sleep(time.Millisecond)

	same := "stable"
	got, err := svc.Update(context.Background(), p.ID, UpdateRequest{Text: &same})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(before), "no-op update must still refresh updated_at")
}

func TestUpdateMissingPrompt(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	text := "whatever"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateRequest{Text: &text})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateRejectsParentCycle(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	a, err := svc.Create(context.Background(), CreateRequest{Text: "root"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CreateRequest{Text: "derived", ParentID: &a.ID})
	require.NoError(t, err)

	// a -> b -> a would be a cycle
	_, err = svc.Update(context.Background(), a.ID, UpdateRequest{ParentID: &b.ID})
	assert.True(t, store.IsValidation(err), "want validation error, got %v", err)

	// self-parenting is a cycle of length one
	_, err = svc.Update(context.Background(), a.ID, UpdateRequest{ParentID: &a.ID})
	assert.True(t, store.IsValidation(err), "want validation error, got %v", err)
}

func TestAddInstance(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	p, err := svc.Create(context.Background(), CreateRequest{Text: "Summarize {{doc}}"})
	require.NoError(t, err)

	inst, err := svc.AddInstance(context.Background(), p.ID, InstanceRequest{
		FormattedText: "Summarize the quarterly report",
		Context:       []byte(`{"doc":"q3"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, inst.PromptID)

	_, err = svc.AddInstance(context.Background(), p.ID, InstanceRequest{FormattedText: ""})
	assert.True(t, store.IsValidation(err))

	_, err = svc.AddInstance(context.Background(), uuid.New(), InstanceRequest{FormattedText: "orphan"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, st.instances, 1, "failed adds must not persist")
}

func TestListInstancesMissingPrompt(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st)

	_, _, err := svc.ListInstances(context.Background(), uuid.New(), 0, 50)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
