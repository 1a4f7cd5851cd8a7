// Package ledger keeps the best session results of the running process.
//
// Entries live in memory only and are lost on restart. The list is bounded
// (top 5 by default) and ordered by score, highest first; equal scores keep
// insertion order.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/robalobadob/wordchallenge/internal/game"
)

// DefaultLimit is the number of entries retained.
const DefaultLimit = 5

// Entry is one finished session.
type Entry struct {
	Score      int             `json:"score"`
	Difficulty game.Difficulty `json:"difficulty"`
	Date       string          `json:"date"` // local calendar date, YYYY-MM-DD
}

// DateKey formats t as a calendar date in its own location.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Ledger is a bounded, sorted high score list. Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	limit   int
	entries []Entry
}

// New returns an empty ledger keeping at most limit entries
// (DefaultLimit when limit <= 0).
func New(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{limit: limit}
}

// Record appends e, re-sorts and truncates. It returns the 1-based rank of e,
// or 0 when e did not make the list.
func (l *Ledger) Record(e Entry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	idx := len(l.entries) - 1

	// Stable sort on (score desc, insertion order) keeps ties in arrival order.
	order := make([]int, len(l.entries))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return l.entries[b].Score - l.entries[a].Score
	})

	rank := 0
	sorted := make([]Entry, 0, min(len(order), l.limit))
	for pos, i := range order {
		if pos >= l.limit {
			break
		}
		if i == idx {
			rank = pos + 1
		}
		sorted = append(sorted, l.entries[i])
	}
	l.entries = sorted
	return rank
}

// List returns the current entries, best first.
func (l *Ledger) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry{}, l.entries...)
}

// Best returns the top entry, if any.
func (l *Ledger) Best() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[0], true
}

// Len reports the number of entries held.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
