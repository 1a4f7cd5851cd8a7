package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchallenge/internal/config"
	"github.com/robalobadob/wordchallenge/internal/game"
	"github.com/robalobadob/wordchallenge/internal/httpserver"
	"github.com/robalobadob/wordchallenge/internal/store"
	"github.com/robalobadob/wordchallenge/internal/words"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if cfg.InsecureSecret() {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	bank, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word catalog")
	}
	log.Info().Int("words", bank.Len()).Msg("word catalog loaded")

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, bank, game.NewEngine(bank), httpserver.Options{
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		RateRPS:      cfg.RateRPS,
		RateBurst:    cfg.RateBurst,
		TickInterval: cfg.TickInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweep(ctx, srv, mem, cfg.IdleTimeout)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", cfg.Port).Msg("starting word challenge server")
	if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-idleConnsClosed
	log.Info().Msg("server stopped")
}

// sweep evicts idle clients and rate limit buckets until ctx is done.
func sweep(ctx context.Context, srv *httpserver.Server, st store.Store, maxIdle time.Duration) {
	t := time.NewTicker(max(maxIdle/2, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			clients, limiters := srv.Sweep(ctx, maxIdle)
			if clients > 0 || limiters > 0 {
				log.Info().
					Int("evicted", clients).
					Int("limiters", limiters).
					Int("clients", st.Len()).
					Msg("idle clients swept")
			}
		}
	}
}
