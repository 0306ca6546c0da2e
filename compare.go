package dice

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// CompareOp is a comparison operator usable in a ComparePoint.
type CompareOp int

// Comparison operators. EQL/NEQ are reachable via more than one notation
// spelling (Normalize below maps "==" to EQL and "!"/"<>" to NEQ).
const (
	compareOpNone CompareOp = iota
	EQL                     // =
	NEQ                     // != (also "<>")
	LSS                     // <
	GTR                     // >
	LEQ                     // <=
	GEQ                     // >=
	compareOpEnd
)

var compareSymbols = [...]string{
	compareOpNone: "",
	EQL:           "=",
	NEQ:           "!=",
	LSS:           "<",
	GTR:           ">",
	LEQ:           "<=",
	GEQ:           ">=",
}

var compareSymbolLookup map[string]CompareOp

func init() {
	compareSymbolLookup = make(map[string]CompareOp, len(compareSymbols)*2)
	for op := compareOpNone + 1; op < compareOpEnd; op++ {
		compareSymbolLookup[compareSymbols[op]] = op
	}
	// Aliases the grammar accepts but that don't round-trip back out of
	// String(): "==" normalizes to EQL, "<>" and "!" normalize to NEQ.
	compareSymbolLookup["=="] = EQL
	compareSymbolLookup["<>"] = NEQ
	compareSymbolLookup["!"] = NEQ
}

// LookupCompareOp returns the CompareOp a notation symbol represents, or
// compareOpNone if the symbol is unrecognized.
func LookupCompareOp(s string) CompareOp {
	return compareSymbolLookup[s]
}

func (c CompareOp) String() string {
	if c >= 0 && int(c) < len(compareSymbols) {
		return compareSymbols[c]
	}
	return ""
}

// MarshalJSON encodes a CompareOp as its canonical symbol.
func (c CompareOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a CompareOp from its symbol, accepting any of the
// aliases LookupCompareOp understands.
func (c *CompareOp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "unmarshaling CompareOp")
	}
	op, ok := compareSymbolLookup[s]
	if !ok && s != "" {
		return InvalidOperator(s)
	}
	*c = op
	return nil
}

// A ComparePoint is an (operator, value) predicate over numbers, as used by
// explode, re-roll, unique, target, critical-success and critical-failure
// modifiers.
type ComparePoint struct {
	Operator CompareOp `json:"operator"`
	Value    float64   `json:"value"`
}

// NewComparePoint constructs a ComparePoint, validating the operator symbol
// and that value is finite. An empty operator string is rejected with
// MissingArgument, an unrecognized one with InvalidOperator, and a
// non-finite value with InvalidArgument.
func NewComparePoint(operator string, value float64) (*ComparePoint, error) {
	if operator == "" {
		return nil, MissingArgument("comparePoint operator")
	}
	op, ok := compareSymbolLookup[operator]
	if !ok {
		return nil, InvalidOperator(operator)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, InvalidArgument("comparePoint value must be finite, got %v", value)
	}
	return &ComparePoint{Operator: op, Value: value}, nil
}

// Matches reports whether x satisfies the compare point. Per spec, matches
// always returns false when either side is NaN (not merely when x is NaN:
// a ComparePoint is constructed with a finite Value, so this guards future
// callers that might mutate Value directly).
func (cp *ComparePoint) Matches(x float64) bool {
	if cp == nil {
		return false
	}
	if math.IsNaN(x) || math.IsNaN(cp.Value) {
		return false
	}
	switch cp.Operator {
	case EQL:
		return x == cp.Value
	case NEQ:
		return x != cp.Value
	case LSS:
		return x < cp.Value
	case GTR:
		return x > cp.Value
	case LEQ:
		return x <= cp.Value
	case GEQ:
		return x >= cp.Value
	default:
		return false
	}
}

// String serializes the ComparePoint as "operator+value", e.g. ">=4".
func (cp *ComparePoint) String() string {
	if cp == nil {
		return ""
	}
	return cp.Operator.String() + formatNumber(cp.Value)
}

// formatNumber formats a float64 the way dice notation expects numeric
// literals to render: integral values without a decimal point, fractional
// values with the shortest round-tripping representation.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
