// internal/challenge/view.go
//
// Render-ready snapshot of a gameplay screen, sent to clients after every
// change. Adds the input placeholder, letter tiles, urgency pulse and the
// game over summary to the raw session.

package challenge

import (
	"strings"

	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/ledger"
)

// urgentBelow is the remaining time (inclusive) at which the timer pulses.
const urgentBelow = 10

// View is the render-ready snapshot of a screen.
type View struct {
	game.Session

	Hint       string         `json:"hint,omitempty"` // only while visible
	Display    string         `json:"display"`        // input, or one '_' per letter
	Letters    []string       `json:"letters"`        // tappable scrambled letters
	WordLength int            `json:"wordLength"`
	TimeLimit  int            `json:"timeLimit"`
	Urgent     bool           `json:"urgent"`
	HighScores []ledger.Entry `json:"highScores"`
	Summary    *Summary       `json:"summary,omitempty"`
}

// Summary is shown on the game over screen.
type Summary struct {
	FinalScore     int             `json:"finalScore"`
	WordsCompleted int             `json:"wordsCompleted"`
	Difficulty     game.Difficulty `json:"difficulty"`
	Rank           int             `json:"rank"` // 1-based, 0 if it missed the list
}

func render(s game.Session, timeLimit int, scores []ledger.Entry, lastRank int) View {
	v := View{
		Session:    s,
		WordLength: len([]rune(s.Word)),
		TimeLimit:  timeLimit,
		HighScores: scores,
		Letters:    []string{},
	}
	if s.HintVisible {
		v.Hint = s.Hint
	}
	for _, r := range s.Scrambled {
		v.Letters = append(v.Letters, string(r))
	}
	v.Display = s.Input
	if v.Display == "" {
		v.Display = strings.Repeat("_", v.WordLength)
	}
	switch s.State {
	case game.StatePlaying:
		v.Urgent = s.TimeRemaining <= urgentBelow
	case game.StateGameOver:
		v.Summary = &Summary{
			FinalScore:     s.Score,
			WordsCompleted: s.WordsCompleted,
			Difficulty:     s.Difficulty,
			Rank:           lastRank,
		}
	}
	return v
}
