package keypad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charlie0129/calc/pkg/calculator"
)

// Kind is the kind of a key.
type Kind string

const (
	KindDigit    Kind = "digit"
	KindOperator Kind = "operator"
	KindEquals   Kind = "equals"
	KindClear    Kind = "clear"
)

// ErrInvalidKey is returned when a string does not name a calculator key.
var ErrInvalidKey = errors.New("invalid key")

// Key is a single button press.
type Key struct {
	Kind     Kind
	Digit    calculator.Digit
	Operator calculator.Operator
}

func DigitKey(d calculator.Digit) Key        { return Key{Kind: KindDigit, Digit: d} }
func OperatorKey(op calculator.Operator) Key { return Key{Kind: KindOperator, Operator: op} }
func EqualsKey() Key                         { return Key{Kind: KindEquals} }
func ClearKey() Key                          { return Key{Kind: KindClear} }

// String returns the symbol printed on the key.
func (k Key) String() string {
	switch k.Kind {
	case KindDigit:
		return k.Digit.String()
	case KindOperator:
		return k.Operator.String()
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	}
	return ""
}

// ParseKey parses one key symbol. Besides the symbols printed on the keypad
// it accepts "x" for multiplication and "AC" for clear, case-insensitively.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "=":
		return EqualsKey(), nil
	case "C", "AC":
		return ClearKey(), nil
	case "X":
		return OperatorKey(calculator.OpMultiply), nil
	}
	if d, err := calculator.ParseDigit(s); err == nil {
		return DigitKey(d), nil
	}
	if op, err := calculator.ParseOperator(s); err == nil {
		return OperatorKey(op), nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

// ParseKeys parses a sequence of tokens. A token is either a single key
// ("5", "AC") or a run of single-character keys ("5+3=").
func ParseKeys(tokens []string) ([]Key, error) {
	var keys []Key
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if k, err := ParseKey(tok); err == nil {
			keys = append(keys, k)
			continue
		}
		for _, r := range tok {
			if r == ' ' {
				continue
			}
			k, err := ParseKey(string(r))
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, tok)
			}
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Strings returns the symbols of keys.
func Strings(keys []Key) []string {
	ret := make([]string, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, k.String())
	}
	return ret
}
