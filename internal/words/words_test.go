package words

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	b, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	if b.Len() != 15 {
		t.Fatalf("expected 15 entries, got %d", b.Len())
	}
	for _, e := range b.Entries() {
		if e.Word != strings.ToUpper(e.Word) {
			t.Errorf("word %q is not uppercase", e.Word)
		}
		if len(e.Word) < 2 {
			t.Errorf("word %q is too short to scramble", e.Word)
		}
		if e.Hint == "" {
			t.Errorf("word %q has no hint", e.Word)
		}
	}
	if h, ok := b.Hint("react"); !ok || h != "JavaScript library" {
		t.Errorf("Hint(react) = %q, %v", h, ok)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	data := "# comment\n\n gopher | Go mascot \nchannel|Typed pipe\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := b.Entries()
	if len(got) != 2 || got[0].Word != "GOPHER" || got[0].Hint != "Go mascot" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"no separator":     "REACT JavaScript\n",
		"single letter":    "A|First letter\n",
		"repeated letters": "AAA|Scream\n",
		"digits":           "R2D2|Droid\n",
		"empty hint":       "REACT|\n",
		"duplicate":        "REACT|one\nreact|two\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(strings.NewReader("# nothing\n")); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestPickCoversCatalog(t *testing.T) {
	b, err := New([]Entry{{Word: "apple", Hint: "fruit"}, {Word: "table", Hint: "furniture"}})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[b.Pick(rng).Word] = true
	}
	if !seen["APPLE"] || !seen["TABLE"] || len(seen) != 2 {
		t.Fatalf("unexpected picks: %v", seen)
	}
}
