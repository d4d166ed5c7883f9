package calculator

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"
)

// Operator is one of the four binary operators. OpNone means no operator
// has been selected yet.
type Operator byte

const (
	OpNone     Operator = 0
	OpAdd      Operator = '+'
	OpSubtract Operator = '-'
	OpMultiply Operator = '*'
	OpDivide   Operator = '/'
)

// Operators lists the selectable operators in keypad order.
var Operators = []Operator{OpDivide, OpMultiply, OpSubtract, OpAdd}

func (o Operator) String() string {
	if o == OpNone {
		return ""
	}
	return string(rune(o))
}

// Valid reports whether o is one of the four selectable operators.
func (o Operator) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

func (o Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Operator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*o = OpNone
		return nil
	}
	op, err := ParseOperator(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOperator parses a single operator symbol.
func ParseOperator(s string) (Operator, error) {
	if len(s) != 1 {
		return OpNone, pkgerrors.Wrapf(ErrInvalidOperator, "%q", s)
	}
	op := Operator(s[0])
	if !op.Valid() {
		return OpNone, pkgerrors.Wrapf(ErrInvalidOperator, "%q", s)
	}
	return op, nil
}

// Digit is a single numeric key: '0' to '9' or the decimal point.
type Digit byte

const DecimalPoint Digit = '.'

func (d Digit) String() string {
	return string(rune(d))
}

// Valid reports whether d is a digit or the decimal point.
func (d Digit) Valid() bool {
	return d == DecimalPoint || (d >= '0' && d <= '9')
}

// ParseDigit parses a single digit or decimal point symbol.
func ParseDigit(s string) (Digit, error) {
	if len(s) != 1 {
		return 0, pkgerrors.Wrapf(ErrInvalidDigit, "%q", s)
	}
	d := Digit(s[0])
	if !d.Valid() {
		return 0, pkgerrors.Wrapf(ErrInvalidDigit, "%q", s)
	}
	return d, nil
}

// Mode is the state of the two-state machine.
type Mode string

const (
	EnteringOperand1 Mode = "EnteringOperand1"
	EnteringOperand2 Mode = "EnteringOperand2"
)
