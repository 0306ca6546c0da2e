package math

import (
	"fmt"
	"strings"

	eval "github.com/Knetic/govaluate"
)

// Canonicalize rewrites a notation-level arithmetic expression into the form
// govaluate expects: "^" (the notation grammar's exponent operator) becomes
// "**", and "==" becomes "=" is NOT handled here (that's a CompareOp
// concern) — Canonicalize only touches operators meaningful to arithmetic
// evaluation.
func Canonicalize(expression string) string {
	return strings.ReplaceAll(expression, "^", "**")
}

// Evaluate arithmetic-evaluates a fully-expanded expression string (i.e. one
// with any dice notation already rolled and substituted by the caller) using
// standard operator precedence, "**" exponentiation, and the DiceFunctions
// math-function set. The result is always a float64; a non-numeric govaluate
// result is reported as an error.
func Evaluate(expression string) (float64, error) {
	expression = Canonicalize(expression)
	if strings.TrimSpace(expression) == "" {
		return 0, ErrNilExpression
	}
	exp, err := eval.NewEvaluableExpressionWithFunctions(expression, DiceFunctions)
	if err != nil {
		return 0, fmt.Errorf("math: parsing %q: %w", expression, err)
	}
	result, err := exp.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("math: evaluating %q: %w", expression, err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("math: result of %q (%v) is not numeric", expression, result)
	}
	return f, nil
}

// Round2 rounds v to 2 decimal places and strips trailing zeros, matching
// the notation of a DiceRoll's total: round2(12.0) == 12, round2(12.10) ==
// 12.1, round2(12.125) == 12.13.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

func roundTo(v float64, places int) float64 {
	shift := pow10(places)
	return roundHalfAwayFromZero(v*shift) / shift
}

func pow10(places int) float64 {
	f := 1.0
	for i := 0; i < places; i++ {
		f *= 10
	}
	return f
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	i := int64(v)
	frac := v - float64(i)
	if frac >= 0.5 {
		i++
	}
	return float64(i)
}
