package challenge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/words"
)

type hapticRecorder struct {
	mu    sync.Mutex
	kinds []game.Feedback
}

func (h *hapticRecorder) Fire(kind game.Feedback) {
	h.mu.Lock()
	h.kinds = append(h.kinds, kind)
	h.mu.Unlock()
}

func (h *hapticRecorder) all() []game.Feedback {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]game.Feedback(nil), h.kinds...)
}

func newTestScreen(t *testing.T, interval time.Duration, h Haptics) *Screen {
	t.Helper()
	bank, err := words.New([]words.Entry{{Word: "REACT", Hint: "JavaScript library"}})
	if err != nil {
		t.Fatal(err)
	}
	eng := game.NewEngine(bank, game.WithSeed(1, 2), game.WithTimeLimits(map[game.Difficulty]int{game.Easy: 3}))
	s := New("test-client", eng, Options{Haptics: h, TickInterval: interval})
	t.Cleanup(s.Close)
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestTimerEndsGameAndRecordsScore(t *testing.T) {
	s := newTestScreen(t, 5*time.Millisecond, nil)

	var mu sync.Mutex
	gameOvers := 0
	s.Subscribe(func(ev Event) {
		if ev.Type == EventView && ev.View.State == game.StateGameOver {
			mu.Lock()
			gameOvers++
			mu.Unlock()
		}
	})

	v, err := s.Start(game.Easy)
	if err != nil {
		t.Fatal(err)
	}
	if v.TimeRemaining != 3 || v.TimeLimit != 3 || !v.Urgent {
		t.Fatalf("unexpected start view: %+v", v)
	}

	waitFor(t, func() bool { return s.View().State == game.StateGameOver })
	time.Sleep(30 * time.Millisecond)

	final := s.View()
	if final.TimeRemaining != 0 || final.Summary == nil || final.Summary.Rank != 1 {
		t.Fatalf("unexpected final view: %+v", final)
	}
	if got := s.HighScores(); len(got) != 1 || got[0].Difficulty != game.Easy {
		t.Fatalf("ledger = %+v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if gameOvers != 1 {
		t.Fatalf("game over published %d times", gameOvers)
	}
}

func TestPauseFreezesCountdown(t *testing.T) {
	s := newTestScreen(t, 10*time.Millisecond, nil)
	if _, err := s.Start(game.Medium); err != nil {
		t.Fatal(err)
	}
	paused, err := s.Pause()
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if got := s.View(); got.TimeRemaining != paused.TimeRemaining || got.State != game.StatePaused {
		t.Fatalf("countdown moved while paused: %d -> %d", paused.TimeRemaining, got.TimeRemaining)
	}
	if _, err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return s.View().TimeRemaining < paused.TimeRemaining })
}

func TestReturnToMenuStopsTimer(t *testing.T) {
	s := newTestScreen(t, 5*time.Millisecond, nil)
	if _, err := s.Start(game.Easy); err != nil {
		t.Fatal(err)
	}
	menu, err := s.ReturnToMenu()
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	got := s.View()
	if got.State != game.StateMenu || got.Session != menu.Session {
		t.Fatalf("menu changed after quit: %+v", got)
	}
	if len(s.HighScores()) != 0 {
		t.Fatal("quitting must not record a score")
	}
}

func TestHapticFeedback(t *testing.T) {
	rec := &hapticRecorder{}
	s := newTestScreen(t, time.Hour, rec)

	var evMu sync.Mutex
	var haptics []game.Feedback
	s.Subscribe(func(ev Event) {
		if ev.Type == EventHaptic {
			evMu.Lock()
			haptics = append(haptics, ev.Feedback)
			evMu.Unlock()
		}
	})

	if _, err := s.Start(game.Hard); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddLetter("x"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Check(); ok {
		t.Fatal("wrong answer accepted")
	}
	if _, err := s.RemoveLetter(); err != nil {
		t.Fatal(err)
	}
	for _, l := range "REACT" {
		if _, err := s.AddLetter(string(l)); err != nil {
			t.Fatal(err)
		}
	}
	v, ok, err := s.Check()
	if err != nil || !ok {
		t.Fatalf("correct answer rejected: %v", err)
	}
	if v.Score != game.Points("REACT", 45) || v.WordsCompleted != 1 {
		t.Fatalf("unexpected view after correct answer: %+v", v)
	}

	want := []game.Feedback{
		game.FeedbackLight, game.FeedbackError, game.FeedbackLight,
		game.FeedbackLight, game.FeedbackLight, game.FeedbackLight, game.FeedbackLight, game.FeedbackLight,
		game.FeedbackSuccess,
	}
	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("haptics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("haptic %d = %q, want %q", i, got[i], want[i])
		}
	}
	evMu.Lock()
	defer evMu.Unlock()
	if len(haptics) != len(want) {
		t.Fatalf("published %d haptic events, want %d", len(haptics), len(want))
	}
}

func TestHintVisibleInView(t *testing.T) {
	s := newTestScreen(t, time.Hour, nil)
	v, _ := s.Start(game.Easy)
	if v.Hint != "" {
		t.Fatal("hint shown before toggle")
	}
	if v.Display != "_____" || len(v.Letters) != 5 {
		t.Fatalf("display/letters = %q/%v", v.Display, v.Letters)
	}
	v, err := s.ToggleHint()
	if err != nil || v.Hint != "JavaScript library" {
		t.Fatalf("hint = %q, %v", v.Hint, err)
	}
}

func TestDispatch(t *testing.T) {
	s := newTestScreen(t, time.Hour, nil)
	if _, err := s.Dispatch(Intent{Type: "start", Difficulty: "hard"}); err != nil {
		t.Fatal(err)
	}
	v, err := s.Dispatch(Intent{Type: "letter", Letter: "r"})
	if err != nil || v.Input != "R" {
		t.Fatalf("letter intent: %q %v", v.Input, err)
	}
	if _, err := s.Dispatch(Intent{Type: "start", Difficulty: "insane"}); !errors.Is(err, game.ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
	if _, err := s.Dispatch(Intent{Type: "dance"}); !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
	if _, err := s.Dispatch(Intent{Type: "again"}); !errors.Is(err, game.ErrNotFinished) {
		t.Fatalf("expected ErrNotFinished, got %v", err)
	}
}

func TestClosedScreenRejectsIntents(t *testing.T) {
	s := newTestScreen(t, time.Hour, nil)
	s.Close()
	if _, err := s.Start(game.Easy); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSlowSubscriberSeesMenuAfterQuit(t *testing.T) {
	s := newTestScreen(t, 5*time.Millisecond, nil)

	var (
		mu       sync.Mutex
		last     game.State
		once     sync.Once
		inFlight = make(chan struct{})
	)
	s.Subscribe(func(ev Event) {
		if ev.Type != EventView {
			return
		}
		if ev.View.State == game.StatePlaying && ev.View.TimeRemaining == 59 {
			once.Do(func() {
				close(inFlight)
				time.Sleep(100 * time.Millisecond)
			})
		}
		mu.Lock()
		last = ev.View.State
		mu.Unlock()
	})

	if _, err := s.Start(game.Medium); err != nil {
		t.Fatal(err)
	}
	select {
	case <-inFlight:
	case <-time.After(3 * time.Second):
		t.Fatal("tick view never delivered")
	}
	if _, err := s.ReturnToMenu(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if last != game.StateMenu || s.View().State != game.StateMenu {
		t.Fatalf("last delivered view = %q, session = %q", last, s.View().State)
	}
}
