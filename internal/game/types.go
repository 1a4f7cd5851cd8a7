// internal/game/types.go
//
// Core type definitions for the Word Challenge engine.
// Defines:
//   - State: where a session is in its lifecycle.
//   - Difficulty: preset time budgets.
//   - Feedback: haptic cue kinds emitted by transitions.
//   - Session: the value object every transition consumes and returns.
//   - Outcome: side information produced by a transition.

package game

import "strings"

// State is the lifecycle position of a session.
type State string

const (
	StateMenu     State = "menu"
	StatePlaying  State = "playing"
	StatePaused   State = "paused"
	StateGameOver State = "gameOver"
)

// Difficulty selects the time budget of a session.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DefaultDifficulty is used before the player has picked one.
const DefaultDifficulty = Medium

// Difficulties lists every difficulty in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// defaultTimeLimits are the per-difficulty budgets in seconds.
var defaultTimeLimits = map[Difficulty]int{
	Easy:   90,
	Medium: 60,
	Hard:   45,
}

// TimeLimit returns the default budget in seconds for d (0 if unknown).
func TimeLimit(d Difficulty) int { return defaultTimeLimits[d] }

// Stars is the menu rating of a difficulty (1 to 3).
func (d Difficulty) Stars() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	_, ok := defaultTimeLimits[d]
	return ok
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidDifficulty
	}
	return d, nil
}

// Feedback is the haptic cue that accompanies a transition.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLight   Feedback = "light"
	FeedbackSuccess Feedback = "success"
	FeedbackError   Feedback = "error"
)

// Session is the complete state of one game. It is a plain value: transitions
// return a new Session and never mutate the one passed in.
type Session struct {
	State          State      `json:"state"`
	Difficulty     Difficulty `json:"difficulty"`
	Word           string     `json:"-"` // current answer, never sent to clients
	Hint           string     `json:"-"`
	Scrambled      string     `json:"scrambled"`
	Input          string     `json:"input"`
	Score          int        `json:"score"`
	TimeRemaining  int        `json:"timeRemaining"`
	WordsCompleted int        `json:"wordsCompleted"`
	HintVisible    bool       `json:"hintVisible"`
}

// NewSession returns a session sitting on the menu.
func NewSession() Session {
	return Session{State: StateMenu, Difficulty: DefaultDifficulty}
}

// Outcome describes what a transition did beyond the new Session.
type Outcome struct {
	Feedback Feedback // haptic cue to fire, if any
	Correct  bool     // CheckAnswer matched
	Awarded  int      // points added by this transition
	Ended    bool     // the session just entered StateGameOver
}
