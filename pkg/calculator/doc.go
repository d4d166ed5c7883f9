// Package calculator implements the two-operand arithmetic state machine
// behind the calculator. It contains:
//
//   - State: the display text, both operands and the pending operator
//   - Engine: owns a State and applies digit, operator, equals and clear events
//   - FormatResult: the textual form of computed results
//
// The engine never returns errors. Operator presses without a first operand
// and equals presses without two operands are ignored, and dividing by zero
// yields NaN.
package calculator
