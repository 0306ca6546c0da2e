package dice

import (
	"context"
	"strings"
	"testing"
)

func TestNewDiceRollRejectsEmptyNotation(t *testing.T) {
	if _, err := NewDiceRoll(""); err == nil {
		t.Fatal("expected an error for empty notation")
	}
}

func TestNewDiceRollRejectsBadSyntax(t *testing.T) {
	if _, err := NewDiceRoll("4d6+"); err == nil {
		t.Fatal("expected a parse error for trailing operator")
	}
}

func TestDiceRollRollComputesTotalAndBounds(t *testing.T) {
	dr, err := NewDiceRoll("4d6")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	gen := NewGenerator(&MaxEngine{})
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if dr.Total != 24 {
		t.Errorf("Total = %v, want 24", dr.Total)
	}
	if dr.MinTotal != 4 {
		t.Errorf("MinTotal = %v, want 4", dr.MinTotal)
	}
	if dr.MaxTotal != 24 {
		t.Errorf("MaxTotal = %v, want 24", dr.MaxTotal)
	}
	if dr.AverageTotal != 14 {
		t.Errorf("AverageTotal = %v, want 14", dr.AverageTotal)
	}
}

func TestDiceRollBoundsIndependentOfSampledEngine(t *testing.T) {
	// Rolling against MinEngine must still produce the correct MaxTotal/
	// MinTotal bounds — computeBounds always re-derives them with its own
	// Min/MaxEngine, never from the caller's generator.
	dr, err := NewDiceRoll("2d8+1")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	gen := NewGenerator(MinEngine{})
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if dr.Total != 3 {
		t.Errorf("Total = %v, want 3 (2d8+1 minned)", dr.Total)
	}
	if dr.MinTotal != 3 {
		t.Errorf("MinTotal = %v, want 3", dr.MinTotal)
	}
	if dr.MaxTotal != 17 {
		t.Errorf("MaxTotal = %v, want 17", dr.MaxTotal)
	}
}

func TestDiceRollDefaultsToDefaultGenerator(t *testing.T) {
	dr, err := NewDiceRoll("3d6")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	if err := dr.Roll(context.Background(), nil); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if dr.Total < 3 || dr.Total > 18 {
		t.Errorf("Total = %v, out of [3,18]", dr.Total)
	}
}

func TestDiceRollOutputFormatSingleNode(t *testing.T) {
	dr, err := NewDiceRoll("4d6")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	gen := NewGenerator(&MaxEngine{})
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	want := "4d6: [6, 6, 6, 6] = 24"
	if dr.Output != want {
		t.Errorf("Output = %q, want %q", dr.Output, want)
	}
}

func TestDiceRollOutputFormatArithmeticExpression(t *testing.T) {
	dr, err := NewDiceRoll("2d6+3")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	gen := NewGenerator(&MaxEngine{})
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if !strings.HasPrefix(dr.Output, "2d6+3: ") {
		t.Errorf("Output = %q, want prefix %q", dr.Output, "2d6+3: ")
	}
	if !strings.HasSuffix(dr.Output, "= 15") {
		t.Errorf("Output = %q, want suffix %q", dr.Output, "= 15")
	}
}

func TestDiceRollRollIsIdempotentAcrossCalls(t *testing.T) {
	// Calling Roll a second time re-samples but must not corrupt bounds.
	dr, err := NewDiceRoll("4d6")
	if err != nil {
		t.Fatalf("NewDiceRoll: %v", err)
	}
	gen := NewGenerator(&MaxEngine{})
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	first := dr.Total
	if err := dr.Roll(context.Background(), gen); err != nil {
		t.Fatalf("Roll (second): %v", err)
	}
	if dr.Total != first {
		t.Errorf("Total changed across identical max-engine rolls: %v != %v", dr.Total, first)
	}
	if dr.MinTotal != 4 || dr.MaxTotal != 24 {
		t.Errorf("bounds corrupted after second roll: min=%v max=%v", dr.MinTotal, dr.MaxTotal)
	}
}
