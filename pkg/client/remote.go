package client

import (
	"sync"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/keypad"
)

var _ keypad.Handler = &Remote{}

// Remote is a daemon session driven through the keypad.Handler interface.
// Handler methods cannot return errors, so the last one is kept and can be
// read with Err.
type Remote struct {
	c  *Client
	id string

	mu    sync.Mutex
	state calculator.State
	err   error
}

// Session returns a Remote for session id. Its display starts as the
// initial one until the first press or Refresh.
func (c *Client) Session(id string) *Remote {
	return &Remote{c: c, id: id, state: calculator.Initial()}
}

func (r *Remote) ID() string {
	return r.id
}

func (r *Remote) OnDigit(d calculator.Digit) {
	r.update(r.c.PressDigit(r.id, d))
}

func (r *Remote) OnOperator(op calculator.Operator) {
	r.update(r.c.PressOperator(r.id, op))
}

func (r *Remote) OnEquals() {
	r.update(r.c.PressEquals(r.id))
}

func (r *Remote) OnClear() {
	r.update(r.c.PressClear(r.id))
}

// Refresh fetches the current state from the daemon. A session that does
// not exist yet is shown in its initial state.
func (r *Remote) Refresh() error {
	st, err := r.c.GetState(r.id)
	if err != nil && isNotFound(err) {
		initial := calculator.Initial()
		st, err = &initial, nil
	}
	r.update(st, err)
	return err
}

func (r *Remote) update(st *calculator.State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	if err == nil {
		r.state = *st
	}
}

// Display returns the display text of the last known state.
func (r *Remote) Display() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Display
}

// State returns the last known state.
func (r *Remote) State() calculator.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the error of the last call, if any.
func (r *Remote) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
