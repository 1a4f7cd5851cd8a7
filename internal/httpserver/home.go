// internal/httpserver/home.go
//
// Static screens: home content, tab bar state and the difficulty menu.

package httpserver

import (
	"net/http"

	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/nav"
)

type feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type homeRes struct {
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	PlayRoute  string    `json:"playRoute"`
	Features   []feature `json:"features"`
	HowToPlay  []string  `json:"howToPlay"`
	Tabs       []nav.Tab `json:"tabs"`
	WordsCount int       `json:"wordsCount"`
}

var homeFeatures = []feature{
	{Icon: "schedule", Title: "Time Challenges", Description: "Race against the clock to solve word puzzles"},
	{Icon: "star", Title: "Multiple Difficulties", Description: "Choose from Easy, Medium, or Hard modes"},
	{Icon: "emoji-events", Title: "High Scores", Description: "Track your best performances and compete with yourself"},
	{Icon: "lightbulb", Title: "Helpful Hints", Description: "Get hints when you're stuck on a word"},
}

var howToPlay = []string{
	"Select your difficulty level",
	"Unscramble the letters to form a word",
	"Tap letters to build your answer",
	"Check your answer before time runs out",
	"Complete as many words as possible!",
}

// handleHome serves the home screen content.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, homeRes{
		Title:      "Word Challenge",
		Subtitle:   "Test your word skills with time challenges!",
		PlayRoute:  nav.RouteChallenge,
		Features:   homeFeatures,
		HowToPlay:  howToPlay,
		Tabs:       nav.DefaultTabs,
		WordsCount: s.bank.Len(),
	})
}

// handleTabs renders the tab bar for a pathname given as ?path= (default home).
func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = nav.RouteHome
	}
	out := make([]nav.TabState, 0, len(nav.DefaultTabs))
	for _, t := range nav.DefaultTabs {
		out = append(out, nav.TabState{Tab: t, Active: nav.Active(t, path)})
	}
	writeJSON(w, http.StatusOK, out)
}

type difficultyInfo struct {
	Name    game.Difficulty `json:"name"`
	Seconds int             `json:"seconds"`
	Stars   int             `json:"stars"`
}

// handleDifficulties lists the menu's difficulty buttons.
func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]difficultyInfo, 0, len(game.Difficulties))
	for _, d := range game.Difficulties {
		out = append(out, difficultyInfo{Name: d, Seconds: s.engine.TimeLimit(d), Stars: d.Stars()})
	}
	writeJSON(w, http.StatusOK, out)
}
