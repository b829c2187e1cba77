// internal/store/memory.go
//
// In-memory implementation of the puzzle Store interface.
// Holds live puzzles between the request that builds them and the requests
// that play them.
//
// Characteristics:
//   - Stores *game.Puzzle keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Entries expire after a TTL (14 days by default, the same lifetime a
//     saved game snapshot had on the client); expired entries are dropped on
//     access and by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordsearch/internal/game"
)

// DefaultTTL is how long a puzzle stays retrievable after it was saved.
const DefaultTTL = 14 * 24 * time.Hour

// ErrNotFound is returned for unknown or expired puzzle IDs.
var ErrNotFound = errors.New("puzzle not found")

// Store defines the persistence interface for live puzzles.
type Store interface {
	// Save persists or refreshes a puzzle.
	Save(ctx context.Context, p *game.Puzzle) error

	// Get retrieves a puzzle by ID.
	// Returns ErrNotFound if the puzzle is missing or expired.
	Get(ctx context.Context, id string) (*game.Puzzle, error)
}

type entry struct {
	puzzle  *game.Puzzle
	savedAt time.Time
}

// Memory is a map-based Store.
type Memory struct {
	mu      sync.RWMutex
	puzzles map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore constructs an in-memory Store with DefaultTTL.
func NewMemoryStore() *Memory {
	return NewMemoryStoreTTL(DefaultTTL)
}

// NewMemoryStoreTTL constructs an in-memory Store with a custom TTL.
func NewMemoryStoreTTL(ttl time.Duration) *Memory {
	return &Memory{puzzles: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Save adds or refreshes the puzzle.
func (m *Memory) Save(ctx context.Context, p *game.Puzzle) error {
	if p == nil || p.ID == "" {
		return errors.New("store: puzzle without ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puzzles[p.ID] = entry{puzzle: p, savedAt: m.now()}
	return nil
}

// Get looks up a puzzle by ID.
func (m *Memory) Get(ctx context.Context, id string) (*game.Puzzle, error) {
	m.mu.RLock()
	e, ok := m.puzzles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(e) {
		m.mu.Lock()
		delete(m.puzzles, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return e.puzzle, nil
}

// Sweep drops every expired puzzle and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.puzzles {
		if m.expired(e) {
			delete(m.puzzles, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored puzzles, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.puzzles)
}

func (m *Memory) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.savedAt) > m.ttl
}
