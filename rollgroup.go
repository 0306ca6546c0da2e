package dice

import (
	"context"
	"sort"
)

// Element is one item of a RollGroup sub-expression or a top-level
// expression list: a Dice node, an operator string ("+", "-", ...), or a
// number literal.
type Element interface{}

// RollGroup is a brace-delimited group of comma-separated sub-expressions,
// e.g. {4d6+4, 2d10}. It owns its own ordered modifier map, applied to the
// assembled ResultGroup after every sub-expression has been rolled.
type RollGroup struct {
	SubExpressions [][]Element
	Modifiers      []GroupModifier
	Description    *Description
}

// NewRollGroup constructs an empty RollGroup.
func NewRollGroup(subExpressions ...[]Element) *RollGroup {
	return &RollGroup{SubExpressions: subExpressions}
}

// Roll evaluates every sub-expression into a ResultGroup element (via
// EvaluateExpression), assembles them into a single ResultGroup with
// isRollGroup=true, and runs the group's modifiers against it in
// order-ascending sequence.
func (rg *RollGroup) Roll(ctx context.Context, gen *Generator) (*ResultGroup, error) {
	group := NewResultGroup(true)
	for i, sub := range rg.SubExpressions {
		if i > 0 {
			group.Append(", ")
		}
		el, err := EvaluateExpression(ctx, gen, sub)
		if err != nil {
			return nil, err
		}
		group.Append(el)
	}

	mods := append([]GroupModifier(nil), rg.Modifiers...)
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].Order() < mods[j].Order() })
	for _, m := range mods {
		if err := m.RunGroup(ctx, group); err != nil {
			return nil, err
		}
		group.AddFlag(m.Name())
	}
	return group, nil
}

// Notation renders "{" sub-expression notations joined by ", " "}" followed
// by each modifier's notation.
func (rg *RollGroup) Notation() string {
	s := "{"
	for i, sub := range rg.SubExpressions {
		if i > 0 {
			s += ", "
		}
		s += elementsNotation(sub)
	}
	s += "}"
	for _, m := range rg.Modifiers {
		s += m.Notation()
	}
	return s
}

func elementsNotation(els []Element) string {
	var s string
	for _, el := range els {
		switch v := el.(type) {
		case Dice:
			s += v.Notation()
		case *RollGroup:
			s += v.Notation()
		case *FunctionCall:
			s += functionCallNotation(v)
		case *ParenExpr:
			s += "(" + elementsNotation(v.Inner) + ")"
		case string:
			s += v
		case float64:
			s += formatNumber(v)
		}
	}
	return s
}

func functionCallNotation(fn *FunctionCall) string {
	s := fn.Name + "("
	for i, arg := range fn.Args {
		if i > 0 {
			s += ","
		}
		s += elementsNotation(arg)
	}
	s += ")"
	return s
}

// A GroupModifier runs against an assembled RollGroup ResultGroup, rather
// than a single die's RollResults. Keep/drop/sorting are the only modifiers
// meaningful at group granularity.
type GroupModifier interface {
	Name() Flag
	Order() int
	Notation() string
	RunGroup(ctx context.Context, group *ResultGroup) error
}

// GroupKeepModifier keeps the highest/lowest Qty sub-roll contributions of a
// RollGroup, excluding the rest from the group's total.
type GroupKeepModifier struct {
	End KeepDropEnd
	Qty int
}

func (m *GroupKeepModifier) Name() Flag     { return FlagDrop }
func (m *GroupKeepModifier) Order() int     { return 6 }
func (m *GroupKeepModifier) Notation() string {
	return "k" + string(m.End) + formatNumber(float64(m.Qty))
}

// RunGroup implements group-level keep per §4.4/§9: when the group has
// exactly one sub-expression that evaluated to a bare RollResults (the
// single-sub-roll case), delegate to the ordinary per-die KeepModifier so
// individual dice within that sub-roll are flagged and dropped. Otherwise,
// index directly over the sub-roll objects (one contribution per
// sub-expression) and exclude the losing ones from the group's sum.
func (m *GroupKeepModifier) RunGroup(ctx context.Context, group *ResultGroup) error {
	if len(group.Elements) == 1 {
		if rr, ok := group.Elements[0].(*RollResults); ok {
			km := &KeepModifier{End: m.End, Qty: m.Qty}
			return km.Run(ctx, rr, nopModifierContext{})
		}
	}
	return runGroupKeepDrop(group, "k", m.End, m.Qty)
}

// GroupDropModifier drops the highest/lowest Qty sub-roll contributions of a
// RollGroup.
type GroupDropModifier struct {
	End KeepDropEnd
	Qty int
}

func (m *GroupDropModifier) Name() Flag     { return FlagDrop }
func (m *GroupDropModifier) Order() int     { return 7 }
func (m *GroupDropModifier) Notation() string {
	return "d" + string(m.End) + formatNumber(float64(m.Qty))
}

// RunGroup implements group-level drop, mirroring GroupKeepModifier.
func (m *GroupDropModifier) RunGroup(ctx context.Context, group *ResultGroup) error {
	if len(group.Elements) == 1 {
		if rr, ok := group.Elements[0].(*RollResults); ok {
			dm := &DropModifier{End: m.End, Qty: m.Qty}
			return dm.Run(ctx, rr, nopModifierContext{})
		}
	}
	return runGroupKeepDrop(group, "d", m.End, m.Qty)
}

func runGroupKeepDrop(group *ResultGroup, op string, end KeepDropEnd, qty int) error {
	type contribution struct {
		index int
		value float64
	}
	contributions := make([]contribution, 0, len(group.Elements))
	for i, el := range group.Elements {
		switch el.(type) {
		case *RollResults, *ResultGroup:
			v, err := elementValue(el)
			if err != nil {
				return err
			}
			contributions = append(contributions, contribution{index: i, value: v})
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool { return contributions[i].value < contributions[j].value })
	drop, err := keepDropIndices(len(contributions), op, end, qty)
	if err != nil {
		return err
	}
	for pos, c := range contributions {
		if drop[pos] {
			group.Exclude(c.index)
		}
	}
	return nil
}

// GroupSortModifier stable-sorts every nested RollResults/ResultGroup within
// a RollGroup's elements by value.
type GroupSortModifier struct {
	Direction SortDirection
}

func (m *GroupSortModifier) Name() Flag       { return Flag("") }
func (m *GroupSortModifier) Order() int       { return 11 }
func (m *GroupSortModifier) Notation() string { return "s" + string(m.Direction) }

// RunGroup implements the sorting modifier at group granularity.
func (m *GroupSortModifier) RunGroup(ctx context.Context, group *ResultGroup) error {
	SortResultGroup(group, m.Direction)
	return nil
}

// nopModifierContext satisfies ModifierContext for group-level keep/drop
// delegation, where min/max defaults and RollOnce are never exercised
// because keep/drop never materializes a compare point or resamples.
type nopModifierContext struct{}

func (nopModifierContext) Min() float64 { return 0 }
func (nopModifierContext) Max() float64 { return 0 }
func (nopModifierContext) RollOnce(ctx context.Context) (*RollResult, error) {
	return nil, NewErrNotImplemented("RollOnce is not available on a group modifier context")
}
