package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// EventHub fans session events out to subscribers. A subscriber follows one
// session or, with an empty filter, all of them. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type EventHub struct {
	mu sync.RWMutex
	// subscriber -> session filter
	subs map[chan Event]string
}

func NewEventHub() *EventHub { return &EventHub{subs: make(map[chan Event]string)} }

// Subscribe returns a channel receiving the events of session, or of every
// session if session is empty.
func (h *EventHub) Subscribe(session string) chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = session
	h.mu.Unlock()
	return ch
}

// Unsubscribe closes ch. It is safe to call more than once.
func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of active subscriptions.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends the event name of session with payload encoded as JSON. A
// nil hub discards it.
func (h *EventHub) Publish(session, name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Error("failed to marshal event payload")
		return
	}
	msg := Event{Session: session, Name: name, Data: b}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, filter := range h.subs {
		if filter != "" && filter != session {
			continue
		}
		select {
		case ch <- msg:
		default:
			logrus.WithFields(logrus.Fields{
				"event":   name,
				"session": session,
			}).Debug("dropped event for slow subscriber")
		}
	}
}
