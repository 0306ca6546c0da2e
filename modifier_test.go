package dice

import (
	"context"
	"testing"
)

func newRollResults(values ...float64) *RollResults {
	rolls := make([]*RollResult, len(values))
	for i, v := range values {
		rolls[i] = NewRollResult(v)
	}
	return NewRollResults(rolls...)
}

func TestKeepModifierHighest(t *testing.T) {
	results := newRollResults(1, 5, 3, 2)
	mc, _ := NewStandardDie(4, 6)
	m := &KeepModifier{End: EndHighest, Qty: 2}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var kept []float64
	for _, r := range results.Rolls {
		if r.UseInTotal() {
			kept = append(kept, r.Value())
		}
	}
	if len(kept) != 2 {
		t.Fatalf("kept %d rolls, want 2", len(kept))
	}
	if results.Value() != 8 {
		t.Errorf("Value() = %v, want 8 (5+3)", results.Value())
	}
}

func TestDropModifierLowest(t *testing.T) {
	results := newRollResults(1, 5, 3, 2)
	mc, _ := NewStandardDie(4, 6)
	m := &DropModifier{End: EndLowest, Qty: 1}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results.Value() != 10 {
		t.Errorf("Value() = %v, want 10 (5+3+2)", results.Value())
	}
}

func TestTargetModifierTally(t *testing.T) {
	results := newRollResults(1, 6, 3, 6)
	mc, _ := NewStandardDie(4, 6)
	cp, _ := NewComparePoint(">=", 5)
	m := &TargetModifier{Success: cp}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results.Value() != 2 {
		t.Errorf("Value() = %v, want 2 successes", results.Value())
	}
}

func TestTargetModifierWithFailure(t *testing.T) {
	results := newRollResults(1, 6, 1, 6)
	mc, _ := NewStandardDie(4, 6)
	success, _ := NewComparePoint(">=", 5)
	failure, _ := NewComparePoint("<=", 1)
	m := &TargetModifier{Success: success, Failure: failure}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results.Value() != 0 {
		t.Errorf("Value() = %v, want 0 (2 successes - 2 failures)", results.Value())
	}
}

func TestTargetModifierRequiresSuccess(t *testing.T) {
	results := newRollResults(1)
	mc, _ := NewStandardDie(1, 6)
	m := &TargetModifier{}
	if err := m.Run(context.Background(), results, mc); err == nil {
		t.Error("expected MissingArgument for target without success compare point")
	}
}

func TestExplodeModifierDefaultCompareAtMax(t *testing.T) {
	d, _ := NewStandardDie(2, 3)
	gen := NewGenerator(&MaxEngine{})
	d.Modifiers = []Modifier{&ExplodeModifier{}}
	rr, err := d.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	// With MaxEngine every roll (including chained explosions) is 3, the
	// maximum, so each die's chain runs up to the iteration cap. Assert it
	// terminated and every roll but the last of each die's chain is flagged
	// (the cap stops the last one before it explodes).
	if len(rr.Rolls) <= 2 {
		t.Fatalf("expected explode to add rolls beyond the original 2, got %d", len(rr.Rolls))
	}
	chainLen := len(rr.Rolls) / 2
	for i, r := range rr.Rolls {
		if (i+1)%chainLen == 0 {
			continue
		}
		if !r.HasFlag(FlagExplode) {
			t.Error("expected every non-final roll in an exploding chain to carry FlagExplode")
		}
	}
}

func TestExplodeRefusesWhenMinEqualsMax(t *testing.T) {
	fd, _ := NewFudgeDie(1, 2)
	_ = fd
	// Use a die whose Min()==Max(): a 1-sided standard die.
	d, err := NewStandardDie(1, 1)
	if err != nil {
		t.Fatalf("NewStandardDie(1,1): %v", err)
	}
	d.Modifiers = []Modifier{&ExplodeModifier{}}
	if _, err := d.Roll(context.Background(), NewGenerator(&MaxEngine{})); err == nil {
		t.Error("expected InvalidDieAction for explode on a die with min==max")
	}
}

func TestRerollNeverChangesInitialValue(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	gen := NewGenerator(&MinEngine{})
	cp, _ := NewComparePoint("=", 1)
	d.Modifiers = []Modifier{&RerollModifier{CP: cp, Once: true}}
	rr, err := d.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	for _, r := range rr.Rolls {
		if r.InitialValue() != 1 {
			t.Errorf("InitialValue() = %v, want 1 (reroll must not change it)", r.InitialValue())
		}
	}
}

func TestUniqueModifierResolvesDuplicates(t *testing.T) {
	results := newRollResults(3, 3, 3)
	// A scripted engine that always returns a distinct ascending value so
	// the unique modifier's resampling loop can be observed to terminate.
	var next float64 = 10
	mc := &scriptedModifierContext{
		min: 1, max: 6,
		rollOnce: func() (*RollResult, error) {
			next++
			return NewRollResult(next), nil
		},
	}
	m := &UniqueModifier{}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	seen := map[float64]bool{}
	for _, r := range results.Rolls {
		if seen[r.Value()] {
			t.Errorf("duplicate value %v survived unique modifier", r.Value())
		}
		seen[r.Value()] = true
	}
}

type scriptedModifierContext struct {
	min, max float64
	rollOnce func() (*RollResult, error)
}

func (s *scriptedModifierContext) Min() float64 { return s.min }
func (s *scriptedModifierContext) Max() float64 { return s.max }
func (s *scriptedModifierContext) RollOnce(ctx context.Context) (*RollResult, error) {
	return s.rollOnce()
}

func TestCriticalModifierFlagsWithoutAlteringValue(t *testing.T) {
	results := newRollResults(6, 1)
	mc, _ := NewStandardDie(2, 6)
	m := &CriticalModifier{Success: true}
	if err := m.Run(context.Background(), results, mc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results.Rolls[0].HasFlag(FlagCriticalSuccess) {
		t.Error("expected roll of 6 (the die's max) to be flagged critical-success")
	}
	if results.Rolls[1].HasFlag(FlagCriticalSuccess) {
		t.Error("roll of 1 should not be flagged critical-success")
	}
	if results.Rolls[0].Value() != 6 {
		t.Errorf("critical modifier must not alter value, got %v", results.Rolls[0].Value())
	}
}

func TestSortingModifierAscendingDescending(t *testing.T) {
	results := newRollResults(3, 1, 2)
	asc := &SortingModifier{Direction: SortAscending}
	if err := asc.Run(context.Background(), results, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantAsc := []float64{1, 2, 3}
	for i, r := range results.Rolls {
		if r.Value() != wantAsc[i] {
			t.Errorf("ascending sort[%d] = %v, want %v", i, r.Value(), wantAsc[i])
		}
	}

	results = newRollResults(3, 1, 2)
	desc := &SortingModifier{Direction: SortDescending}
	if err := desc.Run(context.Background(), results, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantDesc := []float64{3, 2, 1}
	for i, r := range results.Rolls {
		if r.Value() != wantDesc[i] {
			t.Errorf("descending sort[%d] = %v, want %v", i, r.Value(), wantDesc[i])
		}
	}
}

func TestSortModifiersStableByOrder(t *testing.T) {
	mods := []Modifier{
		&SortingModifier{},
		&MinModifier{},
		&KeepModifier{},
	}
	SortModifiers(mods)
	if _, ok := mods[0].(*MinModifier); !ok {
		t.Errorf("expected MinModifier first (Order=1), got %T", mods[0])
	}
	if _, ok := mods[1].(*KeepModifier); !ok {
		t.Errorf("expected KeepModifier second (Order=6), got %T", mods[1])
	}
	if _, ok := mods[2].(*SortingModifier); !ok {
		t.Errorf("expected SortingModifier last (Order=11), got %T", mods[2])
	}
}
