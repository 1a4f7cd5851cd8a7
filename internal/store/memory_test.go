package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/wordchallenge/internal/challenge"
	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/nav"
	"github.com/robalobadob/wordchallenge/internal/words"
)

func newClient(t *testing.T, id string, now func() time.Time) *Client {
	t.Helper()
	bank, err := words.Load("")
	if err != nil {
		t.Fatal(err)
	}
	eng := game.NewEngine(bank, game.WithSeed(1, 1))
	return &Client{
		ID:     id,
		Screen: challenge.New(id, eng, challenge.Options{Now: now, TickInterval: time.Hour}),
		Nav:    nav.NewTracker(nil, nil),
	}
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	c := newClient(t, "abc", nil)
	if err := st.Save(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "abc")
	if err != nil || got != c {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if err := st.Delete(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Screen.Start(game.Easy); !errors.Is(err, challenge.ErrClosed) {
		t.Fatalf("deleted client screen still open: %v", err)
	}
	if err := st.Delete(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSweepEvictsIdleClients(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	old := time.Now().Add(-2 * time.Hour)
	_ = st.Save(ctx, newClient(t, "idle", func() time.Time { return old }))
	_ = st.Save(ctx, newClient(t, "fresh", nil))

	if n := st.Sweep(ctx, time.Hour); n != 1 {
		t.Fatalf("swept %d clients, want 1", n)
	}
	if _, err := st.Get(ctx, "idle"); !errors.Is(err, ErrNotFound) {
		t.Fatal("idle client survived sweep")
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}
}
