// internal/words/words.go
//
// Word Bank for the challenge engine.
//
// Responsibilities:
//   - Load (word, hint) entries from a file or fall back to the embedded catalog.
//   - Validate every entry once at load time so the scrambler never sees a word
//     it cannot permute.
//   - Supply Pick, Entries, Hint and Len.
//
// Catalog format (one entry per line):
//   WORD|hint
// Blank lines and lines starting with '#' are ignored. Words are uppercased.
//
// Constraints:
//   • Words are letters only, at least 2 long, with at least 2 distinct letters.
//   • Hints are non-empty.
//   • Words are unique.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/robalobadob/wordchallenge/assets"
)

var (
	ErrEmptyCatalog = errors.New("words: catalog is empty")
	ErrInvalidEntry = errors.New("words: invalid entry")
)

// Entry is one puzzle: the answer word and the hint shown on request.
type Entry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// Bank is an immutable, validated word catalog.
type Bank struct {
	entries []Entry
	hints   map[string]string
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Bank, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path == "" {
		rc, err = assets.Catalog()
	} else {
		rc, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer rc.Close()
	return Parse(rc)
}

// Parse reads WORD|hint lines from r.
func Parse(r io.Reader) (*Bank, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		word, hint, ok := strings.Cut(s, "|")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing '|' separator", ErrInvalidEntry, line)
		}
		out = append(out, Entry{Word: word, Hint: hint})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(out)
}

// New normalizes and validates entries and returns a Bank.
func New(entries []Entry) (*Bank, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	normalized := lo.Map(entries, func(e Entry, _ int) Entry {
		return Entry{
			Word: strings.ToUpper(strings.TrimSpace(e.Word)),
			Hint: strings.TrimSpace(e.Hint),
		}
	})
	for _, e := range normalized {
		if err := validate(e); err != nil {
			return nil, err
		}
	}
	if dups := lo.FindDuplicatesBy(normalized, func(e Entry) string { return e.Word }); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate word %q", ErrInvalidEntry, dups[0].Word)
	}
	return &Bank{
		entries: normalized,
		hints: lo.Associate(normalized, func(e Entry) (string, string) {
			return e.Word, e.Hint
		}),
	}, nil
}

// validate rejects entries the scrambler cannot turn into a different word.
func validate(e Entry) error {
	runes := []rune(e.Word)
	if len(runes) < 2 {
		return fmt.Errorf("%w: %q is shorter than 2 letters", ErrInvalidEntry, e.Word)
	}
	if !lo.EveryBy(runes, unicode.IsLetter) {
		return fmt.Errorf("%w: %q must contain letters only", ErrInvalidEntry, e.Word)
	}
	if len(lo.Uniq(runes)) < 2 {
		return fmt.Errorf("%w: %q has a single distinct letter", ErrInvalidEntry, e.Word)
	}
	if e.Hint == "" {
		return fmt.Errorf("%w: %q has no hint", ErrInvalidEntry, e.Word)
	}
	return nil
}

// Pick returns a uniformly random entry.
// The caller owns rng and is responsible for serialising access to it.
func (b *Bank) Pick(rng *rand.Rand) Entry {
	return b.entries[rng.IntN(len(b.entries))]
}

// Entries returns a copy of the catalog in file order.
func (b *Bank) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Hint returns the hint for word (case-insensitive).
func (b *Bank) Hint(word string) (string, bool) {
	h, ok := b.hints[strings.ToUpper(word)]
	return h, ok
}

// Len reports the number of entries.
func (b *Bank) Len() int { return len(b.entries) }
