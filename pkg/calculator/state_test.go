package calculator

import (
	"encoding/json"
	"testing"
)

func TestStateJSON(t *testing.T) {
	s := Initial().AppendDigit('7').SelectOperator(OpMultiply).AppendDigit('2')

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"display":"2","operand1":"7","operand2":"2","operator":"*"}`
	if string(b) != want {
		t.Fatalf("marshal = %s, want %s", b, want)
	}

	var got State
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != s {
		t.Fatalf("unmarshal = %+v, want %+v", got, s)
	}

	if err := json.Unmarshal([]byte(`{"operator":"%"}`), &got); err == nil {
		t.Fatalf("expected error for invalid operator")
	}
}

func TestStateTransitionsArePure(t *testing.T) {
	s := Initial().AppendDigit('5')
	_ = s.SelectOperator(OpAdd)
	_ = s.AppendDigit('1')
	_ = s.Clear()
	if s.Operand1 != "5" || s.Operator != OpNone || s.Display != "5" {
		t.Fatalf("receiver was modified: %+v", s)
	}
}

func TestSelectOperatorRejectsNone(t *testing.T) {
	s := Initial().AppendDigit('5').SelectOperator(OpAdd)
	if got := s.SelectOperator(OpNone); got.Operator != OpAdd {
		t.Fatalf("OpNone cleared the pending operator: %+v", got)
	}
}
