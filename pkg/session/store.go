package session

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/calc/pkg/calculator"
)

// DefaultID is the session used when callers do not name one.
const DefaultID = "default"

var (
	// ErrSessionNotFound is returned when a session has never been used or
	// has been deleted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID is returned for ids outside [A-Za-z0-9_-]{1,64}.
	ErrInvalidSessionID = errors.New("invalid session id")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateID checks that id can be used as a session id.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return pkgerrors.Wrapf(ErrInvalidSessionID, "%q", id)
	}
	return nil
}

// Store persists calculator states by session id.
type Store interface {
	Load(ctx context.Context, id string) (*calculator.State, error)
	Save(ctx context.Context, id string, state calculator.State) error
	Delete(ctx context.Context, id string) error
	// List returns the ids of all stored sessions, sorted.
	List(ctx context.Context) ([]string, error)
}

var _ Store = &MemoryStore{}

// MemoryStore keeps states in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]calculator.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]calculator.State)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*calculator.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &st, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, state calculator.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[id] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
