package calculator

// Engine owns a calculator State and applies key events to it. An Engine is
// not safe for concurrent use; callers serialize events.
type Engine struct {
	state     State
	observers []func(prev, next State)
}

// New returns an engine in the initial state.
func New() *Engine {
	return NewFromState(Initial())
}

// NewFromState returns an engine resuming from s.
func NewFromState(s State) *Engine {
	return &Engine{state: s}
}

// OnChange registers fn to be called after every event that changed the
// state. Observers run synchronously, in registration order.
func (e *Engine) OnChange(fn func(prev, next State)) {
	e.observers = append(e.observers, fn)
}

func (e *Engine) OnDigit(d Digit) {
	e.apply(e.state.AppendDigit(d))
}

func (e *Engine) OnOperator(op Operator) {
	e.apply(e.state.SelectOperator(op))
}

func (e *Engine) OnEquals() {
	e.apply(e.state.Equals())
}

func (e *Engine) OnClear() {
	e.apply(e.state.Clear())
}

// Display returns the text the presentation layer should show.
func (e *Engine) Display() string {
	return e.state.Display
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) apply(next State) {
	prev := e.state
	e.state = next
	if prev == next {
		return
	}
	for _, fn := range e.observers {
		fn(prev, next)
	}
}
