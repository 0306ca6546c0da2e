package dice

import (
	"context"
	"testing"
)

func TestRollGroupRollSumsSubExpressions(t *testing.T) {
	d1, _ := NewStandardDie(2, 6)
	d2, _ := NewStandardDie(1, 10)
	rg := NewRollGroup([]Element{d1}, []Element{d2, "+", 3.0})

	gen := NewGenerator(&MaxEngine{})
	group, err := rg.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	v, err := group.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	// d1 maxes at 12 (2d6), second sub-expression maxes at 10+3=13.
	if v != 25 {
		t.Errorf("Value() = %v, want 25", v)
	}
}

func TestRollGroupNotation(t *testing.T) {
	d1, _ := NewStandardDie(4, 6)
	d2, _ := NewStandardDie(2, 10)
	rg := NewRollGroup([]Element{d1}, []Element{d2, "+", 3.0})
	if got := rg.Notation(); got != "{4d6, 2d10+3}" {
		t.Errorf("Notation() = %q, want %q", got, "{4d6, 2d10+3}")
	}
}

func TestGroupKeepModifierMultiSubExpression(t *testing.T) {
	d1, _ := NewStandardDie(1, 4) // maxes at 4
	d2, _ := NewStandardDie(1, 6) // maxes at 6
	d3, _ := NewStandardDie(1, 8) // maxes at 8
	rg := NewRollGroup([]Element{d1}, []Element{d2}, []Element{d3})
	gen := NewGenerator(&MaxEngine{})
	rg.Modifiers = []GroupModifier{&GroupKeepModifier{End: EndHighest, Qty: 1}}
	group, err := rg.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	v, err := group.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 8 {
		t.Errorf("Value() = %v, want 8 (keep-highest 1 of maxed d4,d6,d8)", v)
	}
}

func TestGroupKeepModifierSingleSubExpressionDelegatesToDieKeep(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	rg := NewRollGroup([]Element{d})
	gen := NewGenerator(&MaxEngine{})
	rg.Modifiers = []GroupModifier{&GroupKeepModifier{End: EndHighest, Qty: 2}}
	group, err := rg.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	v, err := group.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 12 {
		t.Errorf("Value() = %v, want 12 (keep top 2 of four maxed d6 rolls)", v)
	}
}

func TestGroupSortModifierSortsNestedRolls(t *testing.T) {
	rr := newRollResults(3, 1, 2)
	group := NewResultGroup(true)
	group.Append(rr)
	m := &GroupSortModifier{Direction: SortAscending}
	if err := m.RunGroup(context.Background(), group); err != nil {
		t.Fatalf("RunGroup: %v", err)
	}
	want := []float64{1, 2, 3}
	for i, r := range rr.Rolls {
		if r.Value() != want[i] {
			t.Errorf("sorted[%d] = %v, want %v", i, r.Value(), want[i])
		}
	}
}
