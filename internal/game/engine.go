// internal/game/engine.go
//
// Core game engine for a single Word Challenge session.
// Responsibilities:
//   - Start sessions with a difficulty-specific time budget.
//   - Pick and scramble words from the word bank.
//   - Apply player intents (letters, delete, check, hint, pause, quit).
//   - Count down time and end the session when it runs out.
//
// Every transition takes a Session value and returns a new one; the engine
// holds no per-session state. Owners (the gameplay screen) keep the current
// Session and serialise calls.
//
// State transitions:
//   menu ──Start──▶ playing ──Tick→0──▶ gameOver ──PlayAgain──▶ playing
//   playing ──Pause──▶ paused ──Resume──▶ playing
//   any ──ReturnToMenu──▶ menu

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"

	"github.com/robalobadob/wordchallenge/internal/words"
)

var (
	ErrNotPlaying        = errors.New("game not in progress")
	ErrNotPaused         = errors.New("game not paused")
	ErrNotFinished       = errors.New("game not finished")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidLetter     = errors.New("invalid letter")
	ErrWordTooShort      = errors.New("word shorter than 2 letters")
	ErrUnscramblable     = errors.New("word has a single distinct letter")
)

// Engine applies transitions. It is safe for concurrent use.
type Engine struct {
	bank   *words.Bank
	limits map[Difficulty]int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes word selection and scrambling deterministic.
func WithSeed(seed1, seed2 uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed1, seed2)) }
}

// WithTimeLimits overrides the per-difficulty budgets (seconds). Difficulties
// missing from limits keep their defaults.
func WithTimeLimits(limits map[Difficulty]int) Option {
	return func(e *Engine) {
		for d, secs := range limits {
			if d.Valid() && secs > 0 {
				e.limits[d] = secs
			}
		}
	}
}

// NewEngine constructs an engine drawing words from bank.
func NewEngine(bank *words.Bank, opts ...Option) *Engine {
	e := &Engine{
		bank:   bank,
		limits: make(map[Difficulty]int, len(defaultTimeLimits)),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for d, secs := range defaultTimeLimits {
		e.limits[d] = secs
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TimeLimit returns the budget in seconds this engine uses for d.
func (e *Engine) TimeLimit(d Difficulty) int { return e.limits[d] }

// Start begins a fresh game at difficulty d from any state.
func (e *Engine) Start(s Session, d Difficulty) (Session, Outcome, error) {
	if !d.Valid() {
		return s, Outcome{}, ErrInvalidDifficulty
	}
	next := Session{
		State:         StatePlaying,
		Difficulty:    d,
		TimeRemaining: e.limits[d],
	}
	next, err := e.loadWord(next)
	if err != nil {
		return s, Outcome{}, err
	}
	return next, Outcome{}, nil
}

// PlayAgain restarts a finished game with the same difficulty.
func (e *Engine) PlayAgain(s Session) (Session, Outcome, error) {
	if s.State != StateGameOver {
		return s, Outcome{}, ErrNotFinished
	}
	return e.Start(s, s.Difficulty)
}

// Tick consumes one second. Outside StatePlaying, or once time is exhausted,
// it is a no-op; reaching zero moves the session to StateGameOver exactly once.
func (e *Engine) Tick(s Session) (Session, Outcome) {
	if s.State != StatePlaying || s.TimeRemaining <= 0 {
		return s, Outcome{}
	}
	s.TimeRemaining--
	if s.TimeRemaining == 0 {
		s.State = StateGameOver
		s.HintVisible = false
		return s, Outcome{Ended: true}
	}
	return s, Outcome{}
}

// AddLetter appends letter to the input while it is shorter than the word.
// A full input leaves the session unchanged and produces no feedback.
func (e *Engine) AddLetter(s Session, letter string) (Session, Outcome, error) {
	if s.State != StatePlaying {
		return s, Outcome{}, ErrNotPlaying
	}
	l, err := normalizeLetter(letter)
	if err != nil {
		return s, Outcome{}, err
	}
	if len([]rune(s.Input)) >= len([]rune(s.Word)) {
		return s, Outcome{}, nil
	}
	s.Input += l
	return s, Outcome{Feedback: FeedbackLight}, nil
}

// RemoveLetter drops the last input letter, if any.
func (e *Engine) RemoveLetter(s Session) (Session, Outcome, error) {
	if s.State != StatePlaying {
		return s, Outcome{}, ErrNotPlaying
	}
	in := []rune(s.Input)
	if len(in) == 0 {
		return s, Outcome{}, nil
	}
	s.Input = string(in[:len(in)-1])
	return s, Outcome{Feedback: FeedbackLight}, nil
}

// CheckAnswer compares the input with the word, ignoring case.
//
// On a match the player earns len(word)*10 plus the remaining time rounded
// down to a multiple of ten, and the next word is loaded. A mismatch leaves
// the session untouched and only reports FeedbackError.
func (e *Engine) CheckAnswer(s Session) (Session, Outcome, error) {
	if s.State != StatePlaying {
		return s, Outcome{}, ErrNotPlaying
	}
	if !strings.EqualFold(s.Input, s.Word) {
		return s, Outcome{Feedback: FeedbackError}, nil
	}
	points := Points(s.Word, s.TimeRemaining)
	next := s
	next.Score += points
	next.WordsCompleted++
	next, err := e.loadWord(next)
	if err != nil {
		return s, Outcome{}, err
	}
	return next, Outcome{Feedback: FeedbackSuccess, Correct: true, Awarded: points}, nil
}

// ToggleHint flips hint visibility. It costs neither time nor score.
func (e *Engine) ToggleHint(s Session) (Session, Outcome, error) {
	if s.State != StatePlaying {
		return s, Outcome{}, ErrNotPlaying
	}
	s.HintVisible = !s.HintVisible
	return s, Outcome{}, nil
}

// Pause freezes the countdown.
func (e *Engine) Pause(s Session) (Session, Outcome, error) {
	if s.State != StatePlaying {
		return s, Outcome{}, ErrNotPlaying
	}
	s.State = StatePaused
	return s, Outcome{}, nil
}

// Resume continues a paused game.
func (e *Engine) Resume(s Session) (Session, Outcome, error) {
	if s.State != StatePaused {
		return s, Outcome{}, ErrNotPaused
	}
	s.State = StatePlaying
	return s, Outcome{}, nil
}

// ReturnToMenu abandons the current game. Only the difficulty survives, so
// the menu can preselect it.
func (e *Engine) ReturnToMenu(s Session) Session {
	return Session{State: StateMenu, Difficulty: s.Difficulty}
}

// Points is the award for solving word with secondsLeft on the clock.
func Points(word string, secondsLeft int) int {
	if secondsLeft < 0 {
		secondsLeft = 0
	}
	return len([]rune(word))*10 + (secondsLeft/10)*10
}

// loadWord picks and scrambles a new word and clears per-word state.
func (e *Engine) loadWord(s Session) (Session, error) {
	e.mu.Lock()
	entry := e.bank.Pick(e.rng)
	scrambled, err := Scramble(entry.Word, e.rng)
	e.mu.Unlock()
	if err != nil {
		return s, fmt.Errorf("scramble %q: %w", entry.Word, err)
	}
	s.Word = entry.Word
	s.Hint = entry.Hint
	s.Scrambled = scrambled
	s.Input = ""
	s.HintVisible = false
	return s, nil
}

// normalizeLetter accepts exactly one letter and uppercases it.
func normalizeLetter(letter string) (string, error) {
	rs := []rune(strings.TrimSpace(letter))
	if len(rs) != 1 || !unicode.IsLetter(rs[0]) {
		return "", ErrInvalidLetter
	}
	return string(unicode.ToUpper(rs[0])), nil
}
