package dice

import (
	"bytes"
	"encoding/json"
	"math"

	dicemath "github.com/rollwright/dice/math"
)

// Flag is a string tag a modifier attaches to a RollResult or ResultGroup to
// record which modifiers affected it. Flags double as the modifier names
// from the data model (§3/§4.4 of the spec).
type Flag string

// The fixed set of flags a modifier can attach.
const (
	FlagMin              Flag = "min"
	FlagMax              Flag = "max"
	FlagExplode          Flag = "explode"
	FlagCompound         Flag = "compound"
	FlagPenetrate        Flag = "penetrate"
	FlagReroll           Flag = "re-roll"
	FlagRerollOnce       Flag = "re-roll-once"
	FlagUnique           Flag = "unique"
	FlagUniqueOnce       Flag = "unique-once"
	FlagDrop             Flag = "drop"
	FlagTargetSuccess    Flag = "target-success"
	FlagTargetFailure    Flag = "target-failure"
	FlagCriticalSuccess  Flag = "critical-success"
	FlagCriticalFailure  Flag = "critical-failure"
)

// flagGlyphs maps each flag to the short glyph used when rendering a result's
// modifierFlags string (§6 of the spec).
var flagGlyphs = map[Flag]string{
	FlagCompound:        "!",
	FlagExplode:         "!",
	FlagCriticalFailure: "__",
	FlagCriticalSuccess: "**",
	FlagDrop:            "d",
	FlagMax:             "v",
	FlagMin:             "^",
	FlagPenetrate:       "p",
	FlagReroll:          "r",
	FlagRerollOnce:      "ro",
	FlagTargetFailure:   "_",
	FlagTargetSuccess:   "*",
	FlagUnique:          "u",
	FlagUniqueOnce:      "uo",
}

// flagSet is an insertion-ordered set of Flags, shared by RollResult and
// ResultGroup to track which modifiers have touched a value.
type flagSet struct {
	order []Flag
	has   map[Flag]bool
}

func (s *flagSet) add(f Flag) {
	if s.has == nil {
		s.has = make(map[Flag]bool)
	}
	if s.has[f] {
		return
	}
	s.has[f] = true
	s.order = append(s.order, f)
}

func (s *flagSet) contains(f Flag) bool {
	return s.has != nil && s.has[f]
}

func (s *flagSet) names() []string {
	names := make([]string, len(s.order))
	for i, f := range s.order {
		names[i] = string(f)
	}
	return names
}

func (s *flagSet) glyphs() string {
	var buf bytes.Buffer
	for _, f := range s.order {
		buf.WriteString(flagGlyphs[f])
	}
	return buf.String()
}

// RollResult is the value produced by rolling a single die.
//
// initialValue is the raw sampled integer and is never altered after
// creation. value defaults to initialValue and may be overwritten by min,
// max, re-roll, or compound-explode modifiers. calculationValue defaults to
// value and is overwritten only by the target modifier (to -1, 0, or 1).
type RollResult struct {
	initialValue float64
	value        float64
	calcValue    *float64 // nil until target modifier overrides it
	flags        flagSet
	useInTotal   bool

	// die is an informational back-reference to the Die that produced this
	// result. It is never required for correctness, is never dereferenced by
	// serialization, and must not be used to reconstruct a result tree.
	die Dice
}

// NewRollResult creates a freshly rolled, included-in-total RollResult.
func NewRollResult(value float64) *RollResult {
	return &RollResult{
		initialValue: value,
		value:        value,
		useInTotal:   true,
	}
}

// InitialValue returns the untouched sampled value.
func (r *RollResult) InitialValue() float64 { return r.initialValue }

// Value returns the result's current (possibly modifier-adjusted) value.
func (r *RollResult) Value() float64 { return r.value }

// SetValue overwrites the result's value, as min/max/re-roll/compound-explode
// modifiers do.
func (r *RollResult) SetValue(v float64) { r.value = v }

// CalculationValue returns the value contributed to totals: value, unless
// the target modifier has overridden it.
func (r *RollResult) CalculationValue() float64 {
	if r.calcValue != nil {
		return *r.calcValue
	}
	return r.value
}

// SetCalculationValue overrides the calculation value (used only by the
// target modifier).
func (r *RollResult) SetCalculationValue(v float64) { r.calcValue = &v }

// UseInTotal reports whether this result contributes to its container's sum.
func (r *RollResult) UseInTotal() bool { return r.useInTotal }

// SetUseInTotal toggles whether this result contributes to its container's
// sum (set false by keep/drop).
func (r *RollResult) SetUseInTotal(use bool) { r.useInTotal = use }

// AddFlag tags the result with a modifier flag.
func (r *RollResult) AddFlag(f Flag) { r.flags.add(f) }

// HasFlag reports whether the result carries the given flag.
func (r *RollResult) HasFlag(f Flag) bool { return r.flags.contains(f) }

// SetDie records an informational back-reference to the producing Die.
func (r *RollResult) SetDie(d Dice) { r.die = d }

// Die returns the informational back-reference, which may be nil.
func (r *RollResult) Die() Dice { return r.die }

type rollResultJSON struct {
	InitialValue     float64  `json:"initialValue"`
	Value            float64  `json:"value"`
	CalculationValue float64  `json:"calculationValue"`
	Modifiers        []string `json:"modifiers"`
	ModifierFlags    string   `json:"modifierFlags"`
	UseInTotal       bool     `json:"useInTotal"`
	Type             string   `json:"type"`
}

// MarshalJSON serializes the RollResult per the spec's result-tree shape.
// The die back-reference is deliberately excluded.
func (r *RollResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(rollResultJSON{
		InitialValue:     r.initialValue,
		Value:            r.value,
		CalculationValue: r.CalculationValue(),
		Modifiers:        r.flags.names(),
		ModifierFlags:    r.flags.glyphs(),
		UseInTotal:       r.useInTotal,
		Type:             "result",
	})
}

func (r *RollResult) String() string {
	s := formatNumber(r.value)
	if glyphs := r.flags.glyphs(); glyphs != "" {
		s += glyphs
	}
	return s
}

// RollResults is an ordered sequence of RollResult, the output of rolling a
// single Dice node (possibly after modifiers split/merged individual rolls).
type RollResults struct {
	Rolls []*RollResult
}

// NewRollResults wraps a slice of RollResult.
func NewRollResults(rolls ...*RollResult) *RollResults {
	return &RollResults{Rolls: rolls}
}

// Value sums calculationValue across every roll with useInTotal set.
func (rr *RollResults) Value() float64 {
	var sum float64
	for _, r := range rr.Rolls {
		if r.UseInTotal() {
			sum += r.CalculationValue()
		}
	}
	return sum
}

type rollResultsJSON struct {
	Rolls []*RollResult `json:"rolls"`
	Value float64       `json:"value"`
	Type  string        `json:"type"`
}

// MarshalJSON serializes the RollResults per the spec's result-tree shape.
func (rr *RollResults) MarshalJSON() ([]byte, error) {
	return json.Marshal(rollResultsJSON{
		Rolls: rr.Rolls,
		Value: rr.Value(),
		Type:  "roll-results",
	})
}

func (rr *RollResults) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range rr.Rolls {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(r.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// A ResultGroupElement is one of: an operator string ("+", "-", ...), a
// finite float64 number literal, a nested *ResultGroup, or *RollResults.
type ResultGroupElement interface{}

// ResultGroup is an ordered sequence of elements produced by evaluating an
// expression list or a brace RollGroup. Its Value is computed by
// concatenating child calculation contributions with the interleaved
// operators/numbers and arithmetic-evaluating the resulting string.
type ResultGroup struct {
	Elements   []ResultGroupElement
	flags      flagSet
	isRollGrp  bool
	useInTotal bool
	calcValue  *float64 // optional override, set by Import when restoring a group

	// excluded marks Elements indices dropped by a group-level keep/drop
	// modifier (RollGroup's sub-roll-object index scheme, §9). Only
	// meaningful when isRollGrp is true.
	excluded map[int]bool
}

// Exclude marks the element at idx as not contributing to Value, as a
// group-level keep/drop modifier does to a losing sub-roll.
func (g *ResultGroup) Exclude(idx int) {
	if g.excluded == nil {
		g.excluded = make(map[int]bool)
	}
	g.excluded[idx] = true
}

// IsExcluded reports whether the element at idx was dropped.
func (g *ResultGroup) IsExcluded(idx int) bool {
	return g.excluded != nil && g.excluded[idx]
}

// NewResultGroup returns an empty ResultGroup that contributes to totals.
func NewResultGroup(isRollGroup bool) *ResultGroup {
	return &ResultGroup{isRollGrp: isRollGroup, useInTotal: true}
}

// Append adds an element (operator string, float64, *ResultGroup, or
// *RollResults) to the group.
func (g *ResultGroup) Append(el ResultGroupElement) {
	g.Elements = append(g.Elements, el)
}

// IsRollGroup reports whether this ResultGroup represents a brace-delimited
// RollGroup (true) or a plain expression list (false).
func (g *ResultGroup) IsRollGroup() bool { return g.isRollGrp }

// UseInTotal reports whether this group contributes to its parent's sum.
func (g *ResultGroup) UseInTotal() bool { return g.useInTotal }

// SetUseInTotal toggles whether this group contributes to its parent's sum.
func (g *ResultGroup) SetUseInTotal(use bool) { g.useInTotal = use }

// AddFlag tags the group with a modifier flag.
func (g *ResultGroup) AddFlag(f Flag) { g.flags.add(f) }

// HasFlag reports whether the group carries the given flag.
func (g *ResultGroup) HasFlag(f Flag) bool { return g.flags.contains(f) }

// SetCalculationValue overrides the value reported for calculationValue and
// used as this group's contribution when it is itself an element of a
// parent group (set by Import when restoring an exported group).
func (g *ResultGroup) SetCalculationValue(v float64) { g.calcValue = &v }

// Value concatenates the group's elements into an arithmetic expression
// string and evaluates it. Operator and number elements are spliced
// verbatim; nested *ResultGroup/*RollResults elements contribute their own
// (recursively computed) Value. A RollGroup (IsRollGroup) is not evaluated
// as a string: its non-excluded elements' values are summed directly. A
// calculation-value override, if set, is returned as is.
func (g *ResultGroup) Value() (float64, error) {
	if g.calcValue != nil {
		return *g.calcValue, nil
	}

	// A RollGroup's sub-expressions are parallel, not joined by operators:
	// per §3, "if no operators are present the contributions sum."
	if g.isRollGrp {
		var sum float64
		for i, el := range g.Elements {
			if g.IsExcluded(i) {
				continue
			}
			cv, err := elementValue(el)
			if err != nil {
				return 0, err
			}
			sum += cv
		}
		return sum, nil
	}

	var buf bytes.Buffer
	for _, el := range g.Elements {
		switch v := el.(type) {
		case string:
			buf.WriteString(v)
		case float64:
			buf.WriteString(formatNumber(v))
		case *ResultGroup:
			cv, err := v.Value()
			if err != nil {
				return 0, err
			}
			buf.WriteByte('(')
			buf.WriteString(formatNumber(cv))
			buf.WriteByte(')')
		case *RollResults:
			buf.WriteByte('(')
			buf.WriteString(formatNumber(v.Value()))
			buf.WriteByte(')')
		default:
			return 0, InvalidArgument("unsupported ResultGroup element %T", el)
		}
	}
	return dicemath.Evaluate(buf.String())
}

// elementValue returns a ResultGroup element's own scalar contribution,
// used when summing a RollGroup's parallel sub-expressions.
func elementValue(el ResultGroupElement) (float64, error) {
	switch v := el.(type) {
	case float64:
		return v, nil
	case *ResultGroup:
		return v.Value()
	case *RollResults:
		return v.Value(), nil
	case string:
		return 0, nil
	default:
		return 0, InvalidArgument("unsupported ResultGroup element %T", el)
	}
}

// CalculationValue returns the value this group contributes when nested
// inside a parent group: the override if set via SetCalculationValue,
// otherwise Value(). Errors from Value are swallowed to 0, matching the
// spec's "finite number" invariant on contributed values — a malformed
// expression should have failed earlier, at Roll time.
func (g *ResultGroup) CalculationValue() float64 {
	if g.calcValue != nil {
		return *g.calcValue
	}
	v, err := g.Value()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type resultGroupJSON struct {
	Results          []json.RawMessage `json:"results"`
	Modifiers        []string          `json:"modifiers"`
	ModifierFlags    string            `json:"modifierFlags"`
	IsRollGroup      bool              `json:"isRollGroup"`
	UseInTotal       bool              `json:"useInTotal"`
	CalculationValue float64           `json:"calculationValue"`
	Value            float64           `json:"value"`
	Type             string            `json:"type"`
}

// MarshalJSON serializes the ResultGroup per the spec's result-tree shape.
func (g *ResultGroup) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(g.Elements))
	for _, el := range g.Elements {
		var b []byte
		var err error
		switch v := el.(type) {
		case string:
			b, err = json.Marshal(v)
		case float64:
			b, err = json.Marshal(v)
		default:
			b, err = json.Marshal(v)
		}
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	v, err := g.Value()
	if err != nil {
		v = 0
	}
	return json.Marshal(resultGroupJSON{
		Results:          raw,
		Modifiers:        g.flags.names(),
		ModifierFlags:    g.flags.glyphs(),
		IsRollGroup:      g.isRollGrp,
		UseInTotal:       g.useInTotal,
		CalculationValue: g.CalculationValue(),
		Value:            v,
		Type:             "result-group",
	})
}

// GoString returns the same rendering as String, kept narrowly for
// REPL/debug rendering.
func (g *ResultGroup) GoString() string {
	return g.String()
}

// String renders the group the way the spec's "output" format requires:
// RollResults render as "[v1f1, v2, ...]", operators/numbers interleave
// verbatim, and a nested group wraps itself in braces when it is a
// RollGroup, or concatenates bare otherwise. If the group carries modifier
// flags, the whole thing is wrapped in parens with the flags appended.
func (g *ResultGroup) String() string {
	var inner bytes.Buffer
	for _, el := range g.Elements {
		switch v := el.(type) {
		case string:
			inner.WriteString(v)
		case float64:
			inner.WriteString(formatNumber(v))
		case *ResultGroup:
			inner.WriteString(v.String())
		case *RollResults:
			inner.WriteString(v.String())
		}
	}

	var buf bytes.Buffer
	if g.isRollGrp {
		buf.WriteByte('{')
		buf.WriteString(inner.String())
		buf.WriteByte('}')
	} else {
		buf.WriteString(inner.String())
	}

	glyphs := g.flags.glyphs()
	if glyphs == "" {
		return buf.String()
	}
	return "(" + buf.String() + ")" + glyphs
}
