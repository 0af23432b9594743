package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
	"github.com/wricardo/oasis-tiles/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager keeps live games in memory. IDs are case-insensitive; every key in
// sessions is lowercased.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

func normalize(id string) string { return strings.ToLower(id) }

// Create starts a game for the given tileset and player count. An empty id
// is replaced with a random 4-character one.
func (m *Manager) Create(id string, config *engine.TilesetConfig, players int) (*service.Session, error) {
	if strings.ContainsAny(id, " /\\?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	// Build the engine outside the lock
	eng, err := engine.NewEngine(config, players)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalize(id)
	switch {
	case key == "":
		key = m.unusedID()
	case m.sessions[key] != nil:
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:             key,
		Engine:         eng,
		Controller:     engine.NewController(eng),
		Config:         config,
		Players:        players,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = sess
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	sess := m.sessions[normalize(id)]
	m.mu.RUnlock()

	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns every session, oldest first.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	out := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	key := normalize(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[key] == nil {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed marks the session as used now, keeping it clear of
// CleanupExpiredSessions.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.sessions[normalize(id)]
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// LastAccessed returns when the session was last used. It takes m.mu, so it
// is safe alongside UpdateLastAccessed.
func (m *Manager) LastAccessed(id string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess := m.sessions[normalize(id)]
	if sess == nil {
		return time.Time{}, ErrSessionNotFound
	}
	return sess.LastAccessedAt, nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and
// reports how many went.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.sessions)
	for key, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
		}
	}
	return before - len(m.sessions)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// unusedID picks a random 4-character hex ID. The caller holds m.mu.
func (m *Manager) unusedID() string {
	var buf [2]byte
	for {
		rand.Read(buf[:])
		if id := hex.EncodeToString(buf[:]); m.sessions[id] == nil {
			return id
		}
	}
}
