// internal/store/memory.go
//
// In-memory registry of connected clients.
//
// Characteristics:
//   - Stores *Client values (gameplay screen + tab bar state) keyed by ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Idle clients are evicted by Sweep, which also stops their timers.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordchallenge/internal/challenge"
	"github.com/robalobadob/wordchallenge/internal/nav"
)

// ErrNotFound is returned by Get for an unknown client ID.
var ErrNotFound = errors.New("not found")

// Client is everything the server keeps for one player.
type Client struct {
	ID     string
	Screen *challenge.Screen
	Nav    *nav.Tracker
}

// Store defines the registry interface for clients.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save adds or replaces a client.
	Save(ctx context.Context, c *Client) error

	// Get retrieves a client by ID.
	// Returns ErrNotFound if the client is unknown.
	Get(ctx context.Context, id string) (*Client, error)

	// Delete removes a client and closes its screen.
	Delete(ctx context.Context, id string) error

	// Sweep evicts clients idle for longer than maxIdle and returns how many.
	Sweep(ctx context.Context, maxIdle time.Duration) int

	// Len reports the number of registered clients.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex       // guards clients map
	clients map[string]*Client // keyed by Client.ID
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{clients: make(map[string]*Client), now: time.Now}
}

// Save adds or updates the client in the map. A replaced client's screen is closed.
func (m *memory) Save(ctx context.Context, c *Client) error {
	m.mu.Lock()
	old := m.clients[c.ID]
	m.clients[c.ID] = c
	m.mu.Unlock()
	if old != nil && old != c {
		old.Screen.Close()
	}
	return nil
}

// Get looks up a client by ID.
func (m *memory) Get(ctx context.Context, id string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	c, ok := m.clients[id]
	delete(m.clients, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	c.Screen.Close()
	return nil
}

func (m *memory) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	var stale []*Client

	m.mu.Lock()
	for id, c := range m.clients {
		if c.Screen.LastSeen().Before(cutoff) {
			stale = append(stale, c)
			delete(m.clients, id)
		}
	}
	m.mu.Unlock()

	for _, c := range stale {
		c.Screen.Close()
	}
	return len(stale)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
