// internal/httpserver/server.go
//
// HTTP server wiring for the Word Challenge backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging, per-IP rate limiting).
//   - Public endpoints: "/", "/health", "/tabs", "/difficulties", "/debug/words".
//   - Client registration: POST /session issues a signed client token.
//   - Gameplay endpoints (require token): mounted under /challenge.
//   - Live stream: GET /challenge/ws (WebSocket).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Tokens are HS256 JWTs carrying the client id; they are accepted from the
//     Authorization header or the auth cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchallenge/internal/challenge"
	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/nav"
	"github.com/robalobadob/wordchallenge/internal/store"
	"github.com/robalobadob/wordchallenge/internal/words"
)

// Options configures a Server. Zero values pick defaults.
type Options struct {
	JWTSecret    string        // default "dev_secret_change_me"
	TokenTTL     time.Duration // default 24h
	CookieName   string        // default "wordchallenge_token"
	ClientOrigin string        // default http://localhost:5173
	RateRPS      int           // default 10
	RateBurst    int           // default 20
	TickInterval time.Duration // default 1s
}

func (o *Options) defaults() {
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.CookieName == "" {
		o.CookieName = "wordchallenge_token"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.RateRPS <= 0 {
		o.RateRPS = 10
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 20
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
}

// Server bundles router, client store, game engine and word bank.
type Server struct {
	r       *chi.Mux
	store   store.Store
	engine  *game.Engine
	bank    *words.Bank
	opts    Options
	limiter *ipLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, bank *words.Bank, engine *game.Engine, opts Options) *Server {
	opts.defaults()
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		engine:  engine,
		bank:    bank,
		opts:    opts,
		limiter: newIPLimiter(opts.RateRPS, opts.RateBurst),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // one log line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS
	s.r.Use(jsonContentType) // default JSON responses

	// Live stream is long-lived: keep it outside the handler timeout.
	s.r.With(s.withClient).Get("/challenge/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "clients": s.store.Len()})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"words": s.bank.Len()})
		})

		// --- home screen + tab bar ---
		r.Get("/", s.handleHome)
		r.Get("/tabs", s.handleTabs)
		r.Get("/difficulties", s.handleDifficulties)

		// --- client registration ---
		r.With(s.rateLimit).Post("/session", s.handleNewSession)

		// --- gameplay (token required) ---
		r.Group(func(r chi.Router) {
			r.Use(s.withClient)
			r.Use(s.rateLimit)
			s.mountChallenge(r)
			r.Post("/navigate", s.handleNavigate)
			r.Delete("/session", s.handleEndSession)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (for http.Server and tests).
func (s *Server) Handler() http.Handler { return s.r }

// Sweep evicts clients and rate limit buckets idle for longer than maxIdle.
func (s *Server) Sweep(ctx context.Context, maxIdle time.Duration) (clients, limiters int) {
	return s.store.Sweep(ctx, maxIdle), s.limiter.prune(maxIdle)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status and latency with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ---------------------------- client context -------------------------------

// ctxClientKey is the context key type for storing *store.Client.
type ctxClientKey struct{}

// withClient enforces a valid token and injects the client into the request context.
func (s *Server) withClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		c, err := s.store.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown_client")
			return
		}
		c.Screen.Touch()
		ctx := context.WithValue(r.Context(), ctxClientKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientFrom returns the client placed in context by withClient.
func clientFrom(r *http.Request) *store.Client {
	c, _ := r.Context().Value(ctxClientKey{}).(*store.Client)
	return c
}

// ------------------------------ session ------------------------------------

type sessionRes struct {
	ClientID  string    `json:"clientId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleNewSession registers a client with a fresh gameplay screen and issues its token.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	c := s.newClient(uuid.NewString())
	if err := s.store.Save(r.Context(), c); err != nil {
		log.Error().Err(err).Msg("save client")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(c.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	log.Info().Str("client", c.ID).Msg("client registered")
	writeJSON(w, http.StatusCreated, sessionRes{ClientID: c.ID, Token: tok, ExpiresAt: exp})
}

// handleEndSession drops the client and clears the cookie.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	if err := s.store.Delete(r.Context(), c.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// newClient wires a screen and a tab tracker whose navigation events are
// published on the screen's event stream.
func (s *Server) newClient(id string) *store.Client {
	logger := log.With().Str("client", id).Logger()
	screen := challenge.New(id, s.engine, challenge.Options{
		TickInterval: s.opts.TickInterval,
		Logger:       &logger,
	})
	tracker := nav.NewTracker(nav.DefaultTabs, nav.NavigatorFunc(func(route string) {
		screen.Publish(challenge.Event{Type: challenge.EventNavigate, Route: route})
	}))
	return &store.Client{ID: id, Screen: screen, Nav: tracker}
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// errorCode maps domain errors to an HTTP status and a stable error code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidDifficulty):
		return http.StatusBadRequest, "invalid_difficulty"
	case errors.Is(err, game.ErrInvalidLetter):
		return http.StatusBadRequest, "invalid_letter"
	case errors.Is(err, challenge.ErrUnknownIntent):
		return http.StatusBadRequest, "unknown_intent"
	case errors.Is(err, nav.ErrUnknownRoute):
		return http.StatusBadRequest, "unknown_route"
	case errors.Is(err, game.ErrNotPlaying):
		return http.StatusConflict, "not_playing"
	case errors.Is(err, game.ErrNotPaused):
		return http.StatusConflict, "not_paused"
	case errors.Is(err, game.ErrNotFinished):
		return http.StatusConflict, "not_finished"
	case errors.Is(err, challenge.ErrClosed):
		return http.StatusGone, "closed"
	}
	return http.StatusInternalServerError, "internal"
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("intent failed")
	}
	writeError(w, status, code)
}
