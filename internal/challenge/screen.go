// internal/challenge/screen.go
//
// Gameplay screen: the owner of one Game Session and one High Score Ledger.
//
// Responsibilities:
//   - Serialise intents from any goroutine into engine transitions.
//   - Run the one-second countdown while, and only while, the session plays.
//   - Record a ledger entry when a session ends.
//   - Fire haptic cues and publish events to subscribers (live clients).
//
// Timer model:
//   Entering StatePlaying arms a ticker goroutine bound to a context and a
//   generation number. Any exit from StatePlaying (game over, pause, menu,
//   restart, Close) cancels the context and bumps the generation, so a tick
//   already in flight finds a different generation and is dropped.
//
// Event order:
//   emitMu is taken before mu is released and held while subscribers run, so
//   events reach subscribers in the order their transitions were applied.

package challenge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/ledger"
)

var (
	ErrClosed        = errors.New("screen closed")
	ErrUnknownIntent = errors.New("unknown intent")
)

// Haptics receives feedback cues. Implementations must not block.
type Haptics interface {
	Fire(kind game.Feedback)
}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func(kind game.Feedback)

func (f HapticsFunc) Fire(kind game.Feedback) { f(kind) }

// EventType tags an Event.
type EventType string

const (
	EventView     EventType = "view"
	EventHaptic   EventType = "haptic"
	EventNavigate EventType = "navigate"
	EventError    EventType = "error"
)

// Event is pushed to subscribers after every change.
type Event struct {
	Type     EventType     `json:"type"`
	View     *View         `json:"view,omitempty"`
	Feedback game.Feedback `json:"feedback,omitempty"`
	Route    string        `json:"route,omitempty"`
}

// Options configures a Screen. Zero values pick defaults.
type Options struct {
	Haptics      Haptics
	TickInterval time.Duration    // default 1s
	Now          func() time.Time // default time.Now
	ScoreLimit   int              // default ledger.DefaultLimit
	Logger       *zerolog.Logger
}

// Screen is safe for concurrent use.
type Screen struct {
	id       string
	engine   *game.Engine
	scores   *ledger.Ledger
	haptics  Haptics
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu       sync.Mutex
	session  game.Session
	lastRank int
	lastSeen time.Time
	closed   bool

	gen    uint64
	cancel context.CancelFunc

	nextSub int
	subs    map[int]func(Event)

	emitMu sync.Mutex // held while delivering events; acquired before mu is released
}

// New creates a screen sitting on the menu.
func New(id string, engine *game.Engine, opts Options) *Screen {
	s := &Screen{
		id:       id,
		engine:   engine,
		scores:   ledger.New(opts.ScoreLimit),
		haptics:  opts.Haptics,
		interval: opts.TickInterval,
		now:      opts.Now,
		session:  game.NewSession(),
		subs:     make(map[int]func(Event)),
	}
	if s.interval <= 0 {
		s.interval = time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	base := log.Logger
	if opts.Logger != nil {
		base = *opts.Logger
	}
	s.log = base.With().Str("client", id).Logger()
	if s.haptics == nil {
		s.haptics = HapticsFunc(func(kind game.Feedback) {
			s.log.Debug().Str("feedback", string(kind)).Msg("haptic")
		})
	}
	s.lastSeen = s.now()
	return s
}

// ID returns the owning client id.
func (s *Screen) ID() string { return s.id }

// Start begins a new game at difficulty d.
func (s *Screen) Start(d game.Difficulty) (View, error) {
	v, _, err := s.apply(true, func(cur game.Session) (game.Session, game.Outcome, error) {
		return s.engine.Start(cur, d)
	})
	if err == nil {
		s.log.Info().Str("difficulty", string(d)).Msg("game started")
	}
	return v, err
}

// PlayAgain restarts a finished game with its difficulty.
func (s *Screen) PlayAgain() (View, error) {
	v, _, err := s.apply(true, s.engine.PlayAgain)
	return v, err
}

// AddLetter taps a letter.
func (s *Screen) AddLetter(letter string) (View, error) {
	v, _, err := s.apply(false, func(cur game.Session) (game.Session, game.Outcome, error) {
		return s.engine.AddLetter(cur, letter)
	})
	return v, err
}

// RemoveLetter deletes the last letter.
func (s *Screen) RemoveLetter() (View, error) {
	v, _, err := s.apply(false, s.engine.RemoveLetter)
	return v, err
}

// Check submits the input. correct reports whether it matched.
func (s *Screen) Check() (v View, correct bool, err error) {
	v, out, err := s.apply(false, s.engine.CheckAnswer)
	return v, out.Correct, err
}

// ToggleHint shows or hides the hint.
func (s *Screen) ToggleHint() (View, error) {
	v, _, err := s.apply(false, s.engine.ToggleHint)
	return v, err
}

// Pause stops the countdown.
func (s *Screen) Pause() (View, error) {
	v, _, err := s.apply(false, s.engine.Pause)
	return v, err
}

// Resume restarts the countdown of a paused game.
func (s *Screen) Resume() (View, error) {
	v, _, err := s.apply(true, s.engine.Resume)
	return v, err
}

// ReturnToMenu abandons the game in progress, if any.
func (s *Screen) ReturnToMenu() (View, error) {
	v, _, err := s.apply(false, func(cur game.Session) (game.Session, game.Outcome, error) {
		return s.engine.ReturnToMenu(cur), game.Outcome{}, nil
	})
	return v, err
}

// Intent is a serialised player action, as received over the wire.
type Intent struct {
	Type       string `json:"type"`
	Letter     string `json:"letter,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Route      string `json:"route,omitempty"`
}

// Dispatch applies a wire intent.
func (s *Screen) Dispatch(in Intent) (View, error) {
	switch in.Type {
	case "start":
		d := game.DefaultDifficulty
		if in.Difficulty != "" {
			var err error
			if d, err = game.ParseDifficulty(in.Difficulty); err != nil {
				return s.View(), err
			}
		}
		return s.Start(d)
	case "again":
		return s.PlayAgain()
	case "letter":
		return s.AddLetter(in.Letter)
	case "delete":
		return s.RemoveLetter()
	case "check":
		v, _, err := s.Check()
		return v, err
	case "hint":
		return s.ToggleHint()
	case "pause":
		return s.Pause()
	case "resume":
		return s.Resume()
	case "quit", "menu":
		return s.ReturnToMenu()
	}
	return s.View(), ErrUnknownIntent
}

// View renders the current state.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// HighScores returns the ledger, best first.
func (s *Screen) HighScores() []ledger.Entry { return s.scores.List() }

// LastSeen is the time of the last applied intent.
func (s *Screen) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the screen as in use without changing it.
func (s *Screen) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// Subscribe registers fn for every subsequent event. fn runs on the goroutine
// that caused the event, one event at a time, and must not call back into the
// screen. The returned func unregisters it.
func (s *Screen) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Publish forwards an externally produced event (e.g. navigation) to subscribers.
func (s *Screen) Publish(ev Event) {
	s.mu.Lock()
	subs := s.subscribersLocked()
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Close stops the timer and drops subscribers. Further intents fail with ErrClosed.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.subs = map[int]func(Event){}
}

// apply runs one transition under the lock and handles its side effects.
// rearm restarts the countdown when the transition leaves the session playing.
func (s *Screen) apply(rearm bool, fn func(game.Session) (game.Session, game.Outcome, error)) (View, game.Outcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return View{}, game.Outcome{}, ErrClosed
	}
	prev := s.session
	next, out, err := fn(prev)
	s.lastSeen = s.now()
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, out, err
	}
	s.session = next

	switch {
	case next.State != game.StatePlaying:
		s.stopTimerLocked()
	case rearm || prev.State != game.StatePlaying:
		s.armTimerLocked()
	}
	if out.Ended {
		s.finishLocked()
	}

	v := s.viewLocked()
	subs := s.subscribersLocked()
	s.emitMu.Lock()
	s.mu.Unlock()

	s.emit(subs, out.Feedback, v)
	s.emitMu.Unlock()
	return v, out, nil
}

// tick is called by the timer goroutine. It reports whether the timer should
// keep running.
func (s *Screen) tick(gen uint64) bool {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	next, out := s.engine.Tick(s.session)
	s.session = next
	if out.Ended {
		s.stopTimerLocked()
		s.finishLocked()
	}
	v := s.viewLocked()
	subs := s.subscribersLocked()
	s.emitMu.Lock()
	s.mu.Unlock()

	s.emit(subs, game.FeedbackNone, v)
	s.emitMu.Unlock()
	return !out.Ended
}

func (s *Screen) armTimerLocked() {
	s.stopTimerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.runTimer(ctx, s.gen)
}

func (s *Screen) stopTimerLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

func (s *Screen) runTimer(ctx context.Context, gen uint64) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// finishLocked records the ended session in the ledger.
func (s *Screen) finishLocked() {
	entry := ledger.Entry{
		Score:      s.session.Score,
		Difficulty: s.session.Difficulty,
		Date:       ledger.DateKey(s.now()),
	}
	s.lastRank = s.scores.Record(entry)
	s.log.Info().
		Int("score", entry.Score).
		Int("words", s.session.WordsCompleted).
		Str("difficulty", string(entry.Difficulty)).
		Int("rank", s.lastRank).
		Msg("game over")
}

func (s *Screen) viewLocked() View {
	return render(s.session, s.engine.TimeLimit(s.session.Difficulty), s.scores.List(), s.lastRank)
}

func (s *Screen) subscribersLocked() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *Screen) emit(subs []func(Event), fb game.Feedback, v View) {
	if fb != game.FeedbackNone {
		s.haptics.Fire(fb)
		for _, fn := range subs {
			fn(Event{Type: EventHaptic, Feedback: fb})
		}
	}
	for _, fn := range subs {
		fn(Event{Type: EventView, View: &v})
	}
}
