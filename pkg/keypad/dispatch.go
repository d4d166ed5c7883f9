package keypad

import "github.com/charlie0129/calc/pkg/calculator"

// Handler receives key events. *calculator.Engine and the daemon client's
// remote session both implement it.
type Handler interface {
	OnDigit(calculator.Digit)
	OnOperator(calculator.Operator)
	OnEquals()
	OnClear()
}

var _ Handler = &calculator.Engine{}

// Dispatch forwards k to the matching Handler method.
func Dispatch(h Handler, k Key) {
	switch k.Kind {
	case KindDigit:
		h.OnDigit(k.Digit)
	case KindOperator:
		h.OnOperator(k.Operator)
	case KindEquals:
		h.OnEquals()
	case KindClear:
		h.OnClear()
	}
}

// DispatchAll forwards keys in order.
func DispatchAll(h Handler, keys []Key) {
	for _, k := range keys {
		Dispatch(h, k)
	}
}
