package calculator

import "errors"

var (
	// ErrInvalidDigit is returned when a symbol is not 0-9 or '.'.
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrInvalidOperator is returned when a symbol is not one of + - * /.
	ErrInvalidOperator = errors.New("invalid operator")
)
