package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/promptcraft/promptcraft-api/internal/models"
)

func TestInsertPrompt(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	p := &models.Prompt{
		ID:      uuid.New(),
		Text:    "Summarize {{doc}}",
		Version: 1,
	}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO prompts").
		WithArgs(p.ID, p.Text, p.Version, p.Description, p.ParentID).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	if err := st.InsertPrompt(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Error("database timestamps were not written back")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetPrompt(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	id := uuid.New()
	parent := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM prompts WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "text", "version", "description", "parent_id", "created_at", "updated_at"}).
			AddRow(id, "text", 3, "desc", &parent, now, now))

	p, err := st.GetPrompt(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Version != 3 || p.ParentID == nil || *p.ParentID != parent {
		t.Errorf("scanned prompt mismatch: %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetPromptNotFound(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM prompts WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := st.GetPrompt(ctx, id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestSavePromptNotFound(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	p := &models.Prompt{ID: uuid.New(), Text: "t", Version: 1}
	mock.ExpectQuery("UPDATE prompts").
		WithArgs(p.ID, p.Text, p.Version, p.Description, p.ParentID).
		WillReturnError(pgx.ErrNoRows)

	err := st.SavePrompt(ctx, p)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestListPrompts(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	now := time.Now()
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT (.+) FROM prompts").
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "text", "version", "description", "parent_id", "created_at", "updated_at"}).
			AddRow(id1, "newest", 1, "", nil, now, now).
			AddRow(id2, "older", 2, "", nil, now.Add(-time.Hour), now.Add(-time.Hour)))

	items, total, err := st.ListPrompts(ctx, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 {
		t.Errorf("want total 7, got %d", total)
	}
	if len(items) != 2 || items[0].ID != id1 {
		t.Errorf("page mismatch: %+v", items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListPromptsRejectsBadPage(t *testing.T) {
	st, _, ctx := newTestStore(t)

	if _, _, err := st.ListPrompts(ctx, -1, 10); !IsValidation(err) {
		t.Errorf("want validation error, got %v", err)
	}
	if _, _, err := st.ListPrompts(ctx, 0, 500); !IsValidation(err) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestPromptExists(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := st.PromptExists(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("want exists = true")
	}
}

func TestIsAncestor(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	candidate, id := uuid.New(), uuid.New()
	mock.ExpectQuery("WITH RECURSIVE chain").
		WithArgs(id, candidate).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := st.IsAncestor(ctx, candidate, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("want ancestor = true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
