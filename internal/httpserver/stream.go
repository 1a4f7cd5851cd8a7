// internal/httpserver/stream.go
//
// WebSocket live stream for one client.
//
//   GET /challenge/ws  (token via header, cookie or ?token=)
//
// Server → client: {"type":"view"|"haptic"|"navigate"|"error", ...}
// Client → server: {"type":"start"|"letter"|...|"navigate", ...}

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchallenge/internal/challenge"
)

const (
	streamBuffer = 64
	writeWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamMsg is one frame sent to the client.
type streamMsg struct {
	challenge.Event
	Error string `json:"error,omitempty"`
}

// handleStream upgrades to a WebSocket. The server pushes every screen event
// (views on each tick and intent, haptic cues, navigation) and accepts intents
// shaped like challenge.Intent; {"type":"navigate","route":...} switches tabs.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	up := upgrader
	up.CheckOrigin = func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || o == s.opts.ClientOrigin
	}
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("client", c.ID).Msg("websocket upgrade")
		return
	}
	logger := log.With().Str("client", c.ID).Logger()
	logger.Info().Msg("stream opened")

	out := make(chan streamMsg, streamBuffer)
	done := make(chan struct{})

	send := func(m streamMsg) {
		select {
		case out <- m:
		case <-done:
		default:
			logger.Warn().Str("type", string(m.Type)).Msg("stream buffer full, dropping event")
		}
	}

	unsubscribe := c.Screen.Subscribe(func(ev challenge.Event) { send(streamMsg{Event: ev}) })

	// Writer: the only goroutine that writes to ws.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case m := <-out:
				_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := ws.WriteJSON(m); err != nil {
					logger.Debug().Err(err).Msg("stream write")
					return
				}
			case <-done:
				return
			}
		}
	}()

	v := c.Screen.View()
	send(streamMsg{Event: challenge.Event{Type: challenge.EventView, View: &v}})

	for {
		var in challenge.Intent
		if err := ws.ReadJSON(&in); err != nil {
			break
		}
		c.Screen.Touch()
		if !s.limiter.allow(r) {
			send(streamMsg{Event: challenge.Event{Type: challenge.EventError}, Error: "rate_limited"})
			continue
		}
		if in.Type == "navigate" {
			err = c.Nav.Navigate(in.Route)
		} else {
			_, err = c.Screen.Dispatch(in)
		}
		if err != nil {
			_, code := errorCode(err)
			send(streamMsg{Event: challenge.Event{Type: challenge.EventError}, Error: code})
		}
	}

	unsubscribe()
	close(done)
	<-writerDone
	_ = ws.Close()
	logger.Info().Msg("stream closed")
}
