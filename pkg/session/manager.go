package session

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/keypad"
	"github.com/charlie0129/calc/pkg/metrics"
)

// Manager applies key presses to stored sessions. Presses on one session
// are handled one at a time, in arrival order; different sessions do not
// block each other.
type Manager struct {
	store   Store
	hub     *events.EventHub
	metrics *metrics.Metrics

	mu sync.Mutex
	// Only sessions with a press or delete in flight have an entry.
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type Option func(*Manager)

// WithEventHub publishes display.changed and session.deleted events to hub.
func WithEventHub(hub *events.EventHub) Option {
	return func(m *Manager) {
		m.hub = hub
	}
}

// WithMetrics records key presses and computations.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		locks: make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lock locks session id and returns the function that unlocks it.
func (m *Manager) lock(id string) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Press applies keys to session id in order and returns the resulting
// state. A session that does not exist yet starts from the initial state.
// Pressing no keys stores nothing.
func (m *Manager) Press(ctx context.Context, id string, keys ...keypad.Key) (calculator.State, error) {
	if err := ValidateID(id); err != nil {
		return calculator.State{}, err
	}

	unlock := m.lock(id)
	defer unlock()

	if len(keys) == 0 {
		return m.load(ctx, id)
	}

	st, err := m.load(ctx, id)
	if err != nil {
		return calculator.State{}, err
	}

	e := calculator.NewFromState(st)
	changed := false
	e.OnChange(func(prev, next calculator.State) {
		changed = true
	})

	for _, k := range keys {
		prev := e.State()
		keypad.Dispatch(e, k)
		m.metrics.ObserveKey(k)
		if k.Kind == keypad.KindEquals && prev.Ready() {
			m.metrics.ObserveComputation(prev.Operator, e.Display())
		}
	}

	next := e.State()
	if err := m.store.Save(ctx, id, next); err != nil {
		return calculator.State{}, pkgerrors.Wrapf(err, "failed to save session %s", id)
	}

	logrus.WithFields(logrus.Fields{
		"session": id,
		"keys":    keypad.Strings(keys),
		"display": next.Display,
		"mode":    next.Mode(),
	}).Debug("keys pressed")

	if changed {
		m.hub.Publish(id, events.DisplayChanged, events.DisplayChangedEvent{
			Session:  id,
			Keys:     keypad.Strings(keys),
			Display:  next.Display,
			Operand1: next.Operand1,
			Operand2: next.Operand2,
			Operator: next.Operator.String(),
			Ts:       time.Now().Unix(),
		})
	}

	return next, nil
}

func (m *Manager) load(ctx context.Context, id string) (calculator.State, error) {
	st, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return calculator.Initial(), nil
		}
		return calculator.State{}, pkgerrors.Wrapf(err, "failed to load session %s", id)
	}
	return *st, nil
}

// Get returns the state of session id, or ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, id string) (calculator.State, error) {
	if err := ValidateID(id); err != nil {
		return calculator.State{}, err
	}
	st, err := m.store.Load(ctx, id)
	if err != nil {
		return calculator.State{}, err
	}
	return *st, nil
}

// Clear presses the clear key on session id.
func (m *Manager) Clear(ctx context.Context, id string) (calculator.State, error) {
	return m.Press(ctx, id, keypad.ClearKey())
}

// Delete forgets session id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	unlock := m.lock(id)
	err := m.store.Delete(ctx, id)
	unlock()
	if err != nil {
		return err
	}

	m.hub.Publish(id, events.SessionDeleted, events.SessionDeletedEvent{
		Session: id,
		Ts:      time.Now().Unix(),
	})
	return nil
}

func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Count returns the number of stored sessions.
func (m *Manager) Count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ids, err := m.store.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
