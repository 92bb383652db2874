package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

// setupMockContext binds the mock as the current transaction so that
// conn() returns it instead of the (nil) pool.
func setupMockContext(mock pgxmock.PgxPoolIface) context.Context {
	return context.WithValue(context.Background(), txKey, querier(mock))
}

func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface, context.Context) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return &Store{timeout: time.Second}, mock, setupMockContext(mock)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		limit   int
		wantErr bool
	}{
		{"defaults", 0, 50, false},
		{"min limit", 0, 1, false},
		{"max limit", 0, 100, false},
		{"large offset", 1_000_000, 10, false},
		{"negative offset", -1, 10, true},
		{"zero limit", 0, 0, true},
		{"limit too high", 0, 101, true},
		{"negative limit", 0, -5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := normalizePage(tt.offset, tt.limit)
			if tt.wantErr {
				if !IsValidation(err) {
					t.Errorf("want validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWithTxReusesEnclosingTransaction(t *testing.T) {
	st, mock, ctx := newTestStore(t)

	// a transaction is already bound to ctx, so WithTx must not Begin
	var called bool
	err := st.WithTx(ctx, func(inner context.Context) error {
		called = true
		if txFrom(inner) == nil {
			t.Error("inner context lost the transaction")
		}
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("callback never ran")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestWithTxPropagatesCallbackError(t *testing.T) {
	st, _, ctx := newTestStore(t)

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("want callback error, got %v", err)
	}
}

func TestWithDeadlineAttachesTimeout(t *testing.T) {
	st := &Store{timeout: time.Second}

	ctx, cancel := st.withDeadline(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline to be set")
	}

	// a caller-supplied deadline is kept as is
	parent, parentCancel := context.WithTimeout(context.Background(), time.Minute)
	defer parentCancel()
	ctx2, cancel2 := st.withDeadline(parent)
	defer cancel2()
	d1, _ := parent.Deadline()
	d2, _ := ctx2.Deadline()
	if !d1.Equal(d2) {
		t.Error("caller deadline should not be replaced")
	}
}
