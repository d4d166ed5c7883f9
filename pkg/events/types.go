package events

import "encoding/json"

// Event name constants
const (
	DisplayChanged = "display.changed"
	SessionDeleted = "session.deleted"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Session string          // Session the event belongs to
	Name    string          // SSE event name
	Data    json.RawMessage // Raw JSON payload
}

// SessionOf reads the session field of the payload. Events decoded from an
// SSE stream carry the session only there.
func SessionOf(e Event) string {
	p, err := DecodeAs[struct {
		Session string `json:"session"`
	}](e)
	if err != nil {
		return ""
	}
	return p.Session
}

// DisplayChangedEvent is the typed payload for display.changed. Keys are the
// keys that produced the change, in the order they were pressed.
type DisplayChangedEvent struct {
	Session  string   `json:"session"`
	Keys     []string `json:"keys"`
	Display  string   `json:"display"`
	Operand1 string   `json:"operand1"`
	Operand2 string   `json:"operand2"`
	Operator string   `json:"operator"`
	Ts       int64    `json:"ts"`
}

// SessionDeletedEvent is the typed payload for session.deleted.
type SessionDeletedEvent struct {
	Session string `json:"session"`
	Ts      int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.DisplayChangedEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Session, payload.Display)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
