// internal/game/scramble.go
//
// Scrambler: turns an answer into a different arrangement of its letters.

package game

import (
	"math/rand/v2"
)

// maxShuffles bounds the retry loop in Scramble. A word with at least two
// distinct letters shuffles back to itself with probability at most 1/2, so
// running out of attempts is practically unreachable.
const maxShuffles = 64

// Scramble returns a random permutation of word that differs from word.
//
// Preconditions (checked, fail fast):
//   - word has at least 2 letters (ErrWordTooShort)
//   - word has at least 2 distinct letters (ErrUnscramblable)
//
// The shuffle is a uniform Fisher–Yates over runes. If every attempt lands on
// the identity, the word is rotated left by one, which differs whenever two
// distinct letters exist.
func Scramble(word string, rng *rand.Rand) (string, error) {
	letters := []rune(word)
	if len(letters) < 2 {
		return "", ErrWordTooShort
	}
	if !hasTwoDistinct(letters) {
		return "", ErrUnscramblable
	}

	buf := make([]rune, len(letters))
	for attempt := 0; attempt < maxShuffles; attempt++ {
		copy(buf, letters)
		for i := len(buf) - 1; i > 0; i-- {
			j := rng.IntN(i + 1)
			buf[i], buf[j] = buf[j], buf[i]
		}
		if s := string(buf); s != word {
			return s, nil
		}
	}
	return string(append(letters[1:], letters[0])), nil
}

func hasTwoDistinct(rs []rune) bool {
	for _, r := range rs[1:] {
		if r != rs[0] {
			return true
		}
	}
	return false
}
