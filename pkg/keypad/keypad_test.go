package keypad

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charlie0129/calc/pkg/calculator"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"0", DigitKey('0')},
		{"9", DigitKey('9')},
		{".", DigitKey('.')},
		{"+", OperatorKey(calculator.OpAdd)},
		{"-", OperatorKey(calculator.OpSubtract)},
		{"*", OperatorKey(calculator.OpMultiply)},
		{"x", OperatorKey(calculator.OpMultiply)},
		{"/", OperatorKey(calculator.OpDivide)},
		{"=", EqualsKey()},
		{"C", ClearKey()},
		{"c", ClearKey()},
		{" AC ", ClearKey()},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil {
			t.Errorf("ParseKey(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "%", "12", "sqrt"} {
		if _, err := ParseKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ParseKey(%q) error = %v, want ErrInvalidKey", in, err)
		}
	}
}

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys([]string{"12", "+", "3.5=", "AC", "7 x 2"})
	if err != nil {
		t.Fatalf("ParseKeys returned error: %v", err)
	}
	want := []string{"1", "2", "+", "3", ".", "5", "=", "C", "7", "*", "2"}
	if got := Strings(keys); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseKeys = %v, want %v", got, want)
	}

	if _, err := ParseKeys([]string{"5%3"}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("ParseKeys(5%%3) error = %v, want ErrInvalidKey", err)
	}
}

type recorder struct {
	calls []string
}

func (r *recorder) OnDigit(d calculator.Digit)        { r.calls = append(r.calls, "digit "+d.String()) }
func (r *recorder) OnOperator(op calculator.Operator) { r.calls = append(r.calls, "op "+op.String()) }
func (r *recorder) OnEquals()                         { r.calls = append(r.calls, "equals") }
func (r *recorder) OnClear()                          { r.calls = append(r.calls, "clear") }

func TestDispatchAll(t *testing.T) {
	keys, err := ParseKeys([]string{"5+3=C"})
	if err != nil {
		t.Fatal(err)
	}
	r := &recorder{}
	DispatchAll(r, keys)
	want := "digit 5,op +,digit 3,equals,clear"
	if got := strings.Join(r.calls, ","); got != want {
		t.Fatalf("calls = %s, want %s", got, want)
	}
}

func TestDispatchToEngine(t *testing.T) {
	keys, err := ParseKeys([]string{"7*-2="})
	if err != nil {
		t.Fatal(err)
	}
	e := calculator.New()
	DispatchAll(e, keys)
	if got := e.Display(); got != "5.0" {
		t.Fatalf("Display() = %q, want 5.0", got)
	}
}

func TestLayout(t *testing.T) {
	rows := Layout()
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}

	var labels []string
	kinds := map[Kind]int{}
	for _, row := range rows {
		width := 0
		for _, b := range row {
			labels = append(labels, b.Label())
			kinds[b.Key.Kind]++
			width += b.Weight
		}
		if width != 3 && width != 4 {
			t.Errorf("row %v has total weight %d", row, width)
		}
	}

	wantRows := []string{"7 8 9 /", "4 5 6 *", "1 2 3 -", "0 . +", "C ="}
	total := 0
	for i, row := range rows {
		var rowLabels []string
		for _, b := range row {
			rowLabels = append(rowLabels, b.Label())
		}
		if got := strings.Join(rowLabels, " "); got != wantRows[i] {
			t.Errorf("row %d = %q, want %q", i, got, wantRows[i])
		}
		total += len(row)
	}
	if total != 17 {
		t.Fatalf("got %d buttons, want 17", total)
	}

	want := "7 8 9 / 4 5 6 * 1 2 3 - 0 . + C ="
	if got := strings.Join(labels, " "); got != want {
		t.Fatalf("labels = %q, want %q", got, want)
	}
	if kinds[KindDigit] != 11 || kinds[KindOperator] != 4 || kinds[KindEquals] != 1 || kinds[KindClear] != 1 {
		t.Fatalf("unexpected key kinds: %v", kinds)
	}
	if got := rows[0][0].AccessibilityLabel(); got != "Botón 7" {
		t.Fatalf("AccessibilityLabel() = %q", got)
	}
}
