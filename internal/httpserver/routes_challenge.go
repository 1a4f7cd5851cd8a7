// internal/httpserver/routes_challenge.go
//
// HTTP routes for the word challenge screen. Every route acts on the
// gameplay screen of the calling client and returns the resulting view.
//
//   GET  /challenge         → current view
//   POST /challenge/start   → {difficulty} start a game
//   POST /challenge/again   → replay a finished game at the same difficulty
//   POST /challenge/letter  → {letter} tap a letter
//   POST /challenge/delete  → remove the last letter
//   POST /challenge/check   → check the answer ({correct, view})
//   POST /challenge/hint    → toggle the hint
//   POST /challenge/pause   → pause the countdown
//   POST /challenge/resume  → resume the countdown
//   POST /challenge/quit    → back to the menu
//   GET  /challenge/scores  → high scores of this process
//   POST /navigate          → {route} switch tab

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordchallenge/internal/challenge"
	"github.com/robalobadob/wordchallenge/internal/game"
)

// mountChallenge registers all /challenge routes.
func (s *Server) mountChallenge(r chi.Router) {
	r.Get("/challenge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, clientFrom(r).Screen.View())
	})
	r.Post("/challenge/start", s.handleStart)
	r.Post("/challenge/again", s.screenIntent((*challenge.Screen).PlayAgain))
	r.Post("/challenge/letter", s.handleLetter)
	r.Post("/challenge/delete", s.screenIntent((*challenge.Screen).RemoveLetter))
	r.Post("/challenge/check", s.handleCheck)
	r.Post("/challenge/hint", s.screenIntent((*challenge.Screen).ToggleHint))
	r.Post("/challenge/pause", s.screenIntent((*challenge.Screen).Pause))
	r.Post("/challenge/resume", s.screenIntent((*challenge.Screen).Resume))
	r.Post("/challenge/quit", s.screenIntent((*challenge.Screen).ReturnToMenu))
	r.Get("/challenge/scores", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"highScores": clientFrom(r).Screen.HighScores()})
	})
}

// screenIntent adapts a body-less screen method to a handler.
func (s *Server) screenIntent(fn func(*challenge.Screen) (challenge.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(clientFrom(r).Screen)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// startReq is the payload for /challenge/start. An empty difficulty means medium.
type startReq struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d := game.DefaultDifficulty
	if req.Difficulty != "" {
		var err error
		if d, err = game.ParseDifficulty(req.Difficulty); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	v, err := clientFrom(r).Screen.Start(d)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// letterReq is the payload for /challenge/letter.
type letterReq struct {
	Letter string `json:"letter"`
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	v, err := clientFrom(r).Screen.AddLetter(req.Letter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// checkRes is returned by /challenge/check.
type checkRes struct {
	Correct bool           `json:"correct"`
	View    challenge.View `json:"view"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	v, ok, err := clientFrom(r).Screen.Check()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkRes{Correct: ok, View: v})
}

// navigateReq is the payload for /navigate.
type navigateReq struct {
	Route string `json:"route"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c := clientFrom(r)
	if err := c.Nav.Navigate(req.Route); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"route": c.Nav.Current(), "tabs": c.Nav.Tabs()})
}
