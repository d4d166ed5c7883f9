package calculator

import (
	"strings"
	"testing"
)

// press feeds a compact key sequence such as "5+3=" into e.
func press(t *testing.T, e *Engine, keys string) {
	t.Helper()
	for _, r := range keys {
		switch {
		case r == '=':
			e.OnEquals()
		case r == 'C':
			e.OnClear()
		case strings.ContainsRune("+-*/", r):
			e.OnOperator(Operator(r))
		default:
			d, err := ParseDigit(string(r))
			if err != nil {
				t.Fatalf("bad key %q in %q: %v", r, keys, err)
			}
			e.OnDigit(d)
		}
	}
}

func TestEngineScenarios(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		display string
	}{
		{name: "addition", keys: "5+3=", display: "8.0"},
		{name: "division by zero", keys: "6/0=", display: "NaN"},
		{name: "operator overwrite uses last operator", keys: "7*-2=", display: "5.0"},
		{name: "subtraction below zero", keys: "2-5=", display: "-3.0"},
		{name: "multiplication", keys: "12*12=", display: "144.0"},
		{name: "repeating fraction", keys: "10/3=", display: "3.3333333333333335"},
		{name: "binary rounding is kept", keys: ".1+.2=", display: "0.30000000000000004"},
		{name: "large result uses exponent", keys: "5000000*2=", display: "1.0E7"},
		{name: "small result uses exponent", keys: "1/10000=", display: "1.0E-4"},
		{name: "lower plain bound", keys: "1/1000=", display: "0.001"},
		{name: "leading zeros accepted", keys: "007+1=", display: "8.0"},
		{name: "chained computation", keys: "5+3=*2=", display: "16.0"},
		{name: "digit after result appends", keys: "5+3=5", display: "8.05"},
		{name: "negative zero", keys: "2-5=*0=", display: "-0.0"},
		{name: "nan propagates", keys: "6/0=+1=", display: "NaN"},
		{name: "multiple decimal points yield nan", keys: "1..2+1=", display: "NaN"},
		{name: "display follows second operand", keys: "12+34", display: "34"},
		{name: "operator does not change display", keys: "12+", display: "12"},
		{name: "clear", keys: "12+34C", display: "0"},
		{name: "initial", keys: "", display: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			press(t, e, tt.keys)
			if got := e.Display(); got != tt.display {
				t.Errorf("Display() after %q = %q, want %q", tt.keys, got, tt.display)
			}
		})
	}
}

func TestEngineDisplayMirrorsOperand1(t *testing.T) {
	e := New()
	for _, k := range "31.4159" {
		press(t, e, string(k))
		s := e.State()
		if s.Display != s.Operand1 {
			t.Fatalf("display %q != operand1 %q", s.Display, s.Operand1)
		}
		if s.Mode() != EnteringOperand1 {
			t.Fatalf("mode = %s, want %s", s.Mode(), EnteringOperand1)
		}
	}
}

func TestEngineOperatorWithoutOperand(t *testing.T) {
	for _, op := range Operators {
		e := New()
		e.OnOperator(op)
		if got := e.State(); got != Initial() {
			t.Errorf("OnOperator(%s) on empty operand1 changed state to %+v", op, got)
		}
	}
}

func TestEngineEqualsNoop(t *testing.T) {
	states := []State{
		Initial(),
		{Display: "5", Operand1: "5"},
		{Display: "5", Operand1: "5", Operator: OpAdd},
		{Display: "3", Operand2: "3", Operator: OpAdd},
		{Display: "3", Operand1: "5", Operand2: "3"},
	}
	for _, s := range states {
		e := NewFromState(s)
		e.OnEquals()
		if got := e.State(); got != s {
			t.Errorf("OnEquals() on %+v changed state to %+v", s, got)
		}
	}
}

func TestEngineEqualsResetsOperator(t *testing.T) {
	e := New()
	press(t, e, "9/3=")
	s := e.State()
	if s.Operand2 != "" || s.Operator != OpNone {
		t.Fatalf("after equals: operand2=%q operator=%q", s.Operand2, s.Operator)
	}
	if s.Operand1 != s.Display || s.Display != "3.0" {
		t.Fatalf("after equals: operand1=%q display=%q", s.Operand1, s.Display)
	}
	if s.Mode() != EnteringOperand1 {
		t.Fatalf("mode = %s", s.Mode())
	}
}

func TestEngineClearFromAnyState(t *testing.T) {
	for _, keys := range []string{"", "5", "5+", "5+3", "5+3=", "6/0=", "1..2"} {
		e := New()
		press(t, e, keys)
		e.OnClear()
		s := e.State()
		if s.Operand1 != "" || s.Operand2 != "" || s.Operator != OpNone || s.Display != "0" {
			t.Errorf("clear after %q left %+v", keys, s)
		}
	}
}

func TestEngineOnChange(t *testing.T) {
	e := New()
	var calls []string
	e.OnChange(func(prev, next State) {
		calls = append(calls, prev.Display+prev.Operator.String()+">"+next.Display+next.Operator.String())
	})

	e.OnOperator(OpAdd) // no-op, no notification
	press(t, e, "4+2=")
	e.OnOperator(OpAdd)
	e.OnOperator(OpAdd) // same operator again, no notification

	// Selecting the operator leaves the display alone but still notifies.
	want := []string{"0>4", "4>4+", "4+>2+", "2+>6.0", "6.0>6.0+"}
	if len(calls) != len(want) {
		t.Fatalf("got %d notifications %v, want %v", len(calls), calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, calls[i], want[i])
		}
	}
}
