package calculator

// InitialDisplay is shown before any operand has been entered.
const InitialDisplay = "0"

// State is the complete arithmetic state of a calculator. It is a value
// type: the transition methods never modify the receiver and return the
// next state instead.
type State struct {
	Display  string   `json:"display"`
	Operand1 string   `json:"operand1"`
	Operand2 string   `json:"operand2"`
	Operator Operator `json:"operator"`
}

// Initial returns the state of a freshly started calculator.
func Initial() State {
	return State{Display: InitialDisplay}
}

// Mode reports which operand is receiving digits.
func (s State) Mode() Mode {
	if s.Operator == OpNone {
		return EnteringOperand1
	}
	return EnteringOperand2
}

// Ready reports whether Equals would compute a result.
func (s State) Ready() bool {
	return s.Operand1 != "" && s.Operand2 != "" && s.Operator != OpNone
}

// AppendDigit appends d to the operand being entered and shows that operand.
// Repeated decimal points and leading zeros are accepted as typed.
func (s State) AppendDigit(d Digit) State {
	if s.Operator == OpNone {
		s.Operand1 += d.String()
		s.Display = s.Operand1
	} else {
		s.Operand2 += d.String()
		s.Display = s.Operand2
	}
	return s
}

// SelectOperator selects op as the pending operator. It is a no-op until the
// first operand has been entered. A second operator press replaces the
// pending one without computing anything.
func (s State) SelectOperator(op Operator) State {
	if s.Operand1 == "" || !op.Valid() {
		return s
	}
	s.Operator = op
	return s
}

// Equals computes operand1 <operator> operand2. The formatted result becomes
// both the display and the new first operand, so the next operator press
// continues from it. It is a no-op unless Ready.
func (s State) Equals() State {
	if !s.Ready() {
		return s
	}
	result := Compute(parseOperand(s.Operand1), parseOperand(s.Operand2), s.Operator)
	s.Display = FormatResult(result)
	s.Operand1 = s.Display
	s.Operand2 = ""
	s.Operator = OpNone
	return s
}

// Clear resets everything.
func (s State) Clear() State {
	return Initial()
}

// Compute applies op to a and b. Dividing by zero yields NaN rather than an
// infinity.
func Compute(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return nan()
		}
		return a / b
	}
	return 0
}
