package keypad

import (
	"fmt"

	"github.com/charlie0129/calc/pkg/calculator"
)

// Button is one button of the on-screen keypad.
type Button struct {
	Key Key
	// Weight is the relative width of the button within its row.
	Weight int
}

// Label is the text printed on the button.
func (b Button) Label() string {
	return b.Key.String()
}

// AccessibilityLabel is the content description read by screen readers.
func (b Button) AccessibilityLabel() string {
	return fmt.Sprintf("Botón %s", b.Label())
}

func digit(c byte) Button { return Button{Key: DigitKey(calculator.Digit(c)), Weight: 1} }
func op(c byte) Button    { return Button{Key: OperatorKey(calculator.Operator(c)), Weight: 1} }

// Layout returns the rows of the keypad, top to bottom.
func Layout() [][]Button {
	zero := digit('0')
	zero.Weight = 2
	return [][]Button{
		{digit('7'), digit('8'), digit('9'), op('/')},
		{digit('4'), digit('5'), digit('6'), op('*')},
		{digit('1'), digit('2'), digit('3'), op('-')},
		{zero, digit('.'), op('+')},
		{{Key: ClearKey(), Weight: 2}, {Key: EqualsKey(), Weight: 1}},
	}
}
