package dice

import (
	"context"
	"testing"
)

func TestNewStandardDieValidation(t *testing.T) {
	if _, err := NewStandardDie(1, 0); err == nil {
		t.Error("expected OutOfRange for 0 sides")
	}
	if _, err := NewStandardDie(0, 6); err == nil {
		t.Error("expected OutOfRange for qty 0")
	}
	if _, err := NewStandardDie(1000, 6); err == nil {
		t.Error("expected OutOfRange for qty > 999")
	}
	d, err := NewStandardDie(4, 6)
	if err != nil {
		t.Fatalf("NewStandardDie(4,6): %v", err)
	}
	if d.Min() != 1 || d.Max() != 6 {
		t.Errorf("bounds = [%v,%v], want [1,6]", d.Min(), d.Max())
	}
	if got := d.Notation(); got != "4d6" {
		t.Errorf("Notation() = %q, want 4d6", got)
	}
}

func TestStandardDieNotationOmitsQtyOfOne(t *testing.T) {
	d, _ := NewStandardDie(1, 20)
	if got := d.Notation(); got != "d20" {
		t.Errorf("Notation() = %q, want d20", got)
	}
}

func TestStandardDieRollWithMaxEngine(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	gen := NewGenerator(&MaxEngine{})
	rr, err := d.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if len(rr.Rolls) != 4 {
		t.Fatalf("len(Rolls) = %d, want 4", len(rr.Rolls))
	}
	for _, r := range rr.Rolls {
		if r.Value() != 6 {
			t.Errorf("roll value = %v, want 6 (max engine)", r.Value())
		}
	}
	if rr.Value() != 24 {
		t.Errorf("total = %v, want 24", rr.Value())
	}
}

func TestStandardDieRollWithMinEngine(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	gen := NewGenerator(&MinEngine{})
	rr, err := d.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	for _, r := range rr.Rolls {
		if r.Value() != 1 {
			t.Errorf("roll value = %v, want 1 (min engine)", r.Value())
		}
	}
}

func TestPercentileDieNotation(t *testing.T) {
	pd, err := NewPercentileDie(2)
	if err != nil {
		t.Fatalf("NewPercentileDie: %v", err)
	}
	if got := pd.Notation(); got != "2d%" {
		t.Errorf("Notation() = %q, want 2d%%", got)
	}
	pd.Explicit = true
	if got := pd.Notation(); got != "2d100" {
		t.Errorf("Explicit Notation() = %q, want 2d100", got)
	}
	if pd.Min() != 1 || pd.Max() != 100 {
		t.Errorf("bounds = [%v,%v], want [1,100]", pd.Min(), pd.Max())
	}
}

func TestFudgeDieTwoNonBlanksBounds(t *testing.T) {
	fd, err := NewFudgeDie(4, 2)
	if err != nil {
		t.Fatalf("NewFudgeDie: %v", err)
	}
	if fd.Min() != -1 || fd.Max() != 1 {
		t.Errorf("bounds = [%v,%v], want [-1,1]", fd.Min(), fd.Max())
	}
	if got := fd.Notation(); got != "4dF" {
		t.Errorf("Notation() = %q, want 4dF", got)
	}
}

func TestFudgeDieOneNonBlankNotation(t *testing.T) {
	fd, err := NewFudgeDie(1, 1)
	if err != nil {
		t.Fatalf("NewFudgeDie: %v", err)
	}
	if got := fd.Notation(); got != "dF.1" {
		t.Errorf("Notation() = %q, want dF.1", got)
	}
}

func TestNewFudgeDieRejectsBadNonBlanks(t *testing.T) {
	if _, err := NewFudgeDie(1, 3); err == nil {
		t.Error("expected OutOfRange for nonBlanks=3")
	}
}

func TestFudgeDieRollWithMaxEngine(t *testing.T) {
	fd, _ := NewFudgeDie(4, 2)
	gen := NewGenerator(&MaxEngine{})
	rr, err := fd.Roll(context.Background(), gen)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	for _, r := range rr.Rolls {
		if r.Value() != 1 {
			t.Errorf("fudge roll value = %v, want 1 (max engine maps top face to +1)", r.Value())
		}
	}
}
