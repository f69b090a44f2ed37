// Package session keeps the documents open in the editor. Each document is
// guarded by one mutex; the manager evicts the least recently used session
// once MaxOpen is reached.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"oval-editor/internal/models"
)

const DefaultMaxOpen = 64

// Session is one open document.
type Session struct {
	ID      string
	Created time.Time

	mu  sync.Mutex
	doc *models.Document
}

// Do runs fn with exclusive access to the document. The document must not
// be retained after fn returns.
func (s *Session) Do(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

type Manager struct {
	sessions  *lru.Cache[string, *Session]
	generator models.Generator
	now       func() time.Time
}

// NewManager returns a manager whose new documents start from generator.
func NewManager(maxOpen int, generator models.Generator) (*Manager, error) {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpen
	}
	cache, err := lru.NewWithEvict[string, *Session](maxOpen, func(id string, s *Session) {
		slog.Info("released editor session", "session_id", id, "age", time.Since(s.Created).Round(time.Second))
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Manager{sessions: cache, generator: generator, now: time.Now}, nil
}

// Open starts a session on an empty document.
func (m *Manager) Open() *Session {
	now := m.now()
	gen := m.generator
	gen.Timestamp = now
	s := &Session{ID: uuid.NewString(), Created: now, doc: models.NewDocument(gen)}
	m.sessions.Add(s.ID, s)
	slog.Info("opened editor session", "session_id", s.ID)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: session %s", models.ErrNotFound, id)
	}
	return s, nil
}

func (m *Manager) Close(id string) error {
	if !m.sessions.Remove(id) {
		return fmt.Errorf("%w: session %s", models.ErrNotFound, id)
	}
	return nil
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}
