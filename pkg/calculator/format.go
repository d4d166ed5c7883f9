package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// FormatResult renders x the way the calculator has always displayed
// doubles: shortest round-trip digits, always with a fractional part
// ("3.0", not "3"), plain notation for 1e-3 <= |x| < 1e7 and
// "d.dddE<exp>" notation outside that range.
func FormatResult(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		if math.Signbit(x) {
			return "-0.0"
		}
		return "0.0"
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	// 'e' with precision -1 gives the shortest digits that round-trip,
	// e.g. "1.2345e-05".
	sci := strconv.FormatFloat(x, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mantissa, ".", "", 1)

	if x >= 1e-3 && x < 1e7 {
		return sign + plain(digits, exp)
	}

	frac := digits[1:]
	if frac == "" {
		frac = "0"
	}
	return sign + digits[:1] + "." + frac + "E" + strconv.Itoa(exp)
}

// plain places the decimal point into digits, where the first digit has
// weight 10^exp.
func plain(digits string, exp int) string {
	if exp < 0 {
		return "0." + strings.Repeat("0", -exp-1) + digits
	}
	if len(digits) <= exp+1 {
		return digits + strings.Repeat("0", exp+1-len(digits)) + ".0"
	}
	return digits[:exp+1] + "." + digits[exp+1:]
}

// parseOperand converts accumulated operand text to a float64. Anything the
// formatter produced parses back, including "NaN", "Infinity" and "1.0E7".
// Text that is not a number at all, such as "1.2.3", yields NaN.
func parseOperand(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return f
	}
	if errors.Is(err, strconv.ErrRange) {
		return f
	}
	logrus.WithField("operand", s).Warn("operand is not a number, using NaN")
	return nan()
}

func nan() float64 {
	return math.NaN()
}
