package math

import (
	"errors"
	"math"
	"sort"

	eval "github.com/Knetic/govaluate"
)

// Possible error types for mathematical functions.
var (
	ErrNotEnoughArgs   = errors.New("not enough args")
	ErrInvalidArgCount = errors.New("invalid argument count")
	ErrNotANumber      = errors.New("argument is not a number")
	ErrNilExpression   = errors.New("nil or empty expression")
)

// DiceFunctions are the functions usable in dice arithmetic expressions,
// covering the full math-function surface the notation grammar exposes:
// abs, ceil, cos, exp, floor, log, round, sign, sin, sqrt, tan, pow, min, max.
var DiceFunctions = map[string]eval.ExpressionFunction{
	"abs":   unary(math.Abs),
	"ceil":  unary(math.Ceil),
	"cos":   unary(math.Cos),
	"exp":   unary(math.Exp),
	"floor": unary(math.Floor),
	"log":   unary(math.Log),
	"round": unary(math.Round),
	"sign":  unary(sign),
	"sin":   unary(math.Sin),
	"sqrt":  unary(math.Sqrt),
	"tan":   unary(math.Tan),
	"pow":   powExpressionFunction,
	"max":   maxExpressionFunction,
	"min":   minExpressionFunction,
}

// ListDiceFunctions returns the names of every function usable inside a dice
// arithmetic expression.
func ListDiceFunctions() []string {
	funcs := make([]string, 0, len(DiceFunctions))
	for name := range DiceFunctions {
		funcs = append(funcs, name)
	}
	return funcs
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// unary adapts a float64->float64 function into a govaluate
// ExpressionFunction that validates its single argument.
func unary(fn func(float64) float64) eval.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return 0, ErrInvalidArgCount
		}
		f, ok := args[0].(float64)
		if !ok {
			return 0, ErrNotANumber
		}
		return fn(f), nil
	}
}

func powExpressionFunction(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return 0, ErrInvalidArgCount
	}
	base, ok := args[0].(float64)
	if !ok {
		return 0, ErrNotANumber
	}
	exp, ok := args[1].(float64)
	if !ok {
		return 0, ErrNotANumber
	}
	return math.Pow(base, exp), nil
}

func maxExpressionFunction(args ...interface{}) (interface{}, error) {
	if len(args) < 1 {
		return 0, ErrNotEnoughArgs
	}
	sort.Slice(args, func(i, j int) bool {
		return args[i].(float64) < args[j].(float64)
	})
	return args[len(args)-1], nil
}

func minExpressionFunction(args ...interface{}) (interface{}, error) {
	if len(args) < 1 {
		return 0, ErrNotEnoughArgs
	}
	sort.Slice(args, func(i, j int) bool {
		return args[i].(float64) < args[j].(float64)
	})
	return args[0], nil
}
