package dice

import (
	"context"
	"testing"
)

func TestEvaluateExpressionDegeneratesSingleElement(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	gen := NewGenerator(&MaxEngine{})
	rolled, err := EvaluateExpression(context.Background(), gen, []Element{d})
	if err != nil {
		t.Fatalf("EvaluateExpression: %v", err)
	}
	rr, ok := rolled.(*RollResults)
	if !ok {
		t.Fatalf("single-element expression should degenerate to *RollResults, got %T", rolled)
	}
	if rr.Value() != 24 {
		t.Errorf("Value() = %v, want 24", rr.Value())
	}
}

func TestEvaluateExpressionArithmetic(t *testing.T) {
	d, _ := NewStandardDie(4, 6)
	gen := NewGenerator(&MaxEngine{})
	rolled, err := EvaluateExpression(context.Background(), gen, []Element{d, "+", 3.0})
	if err != nil {
		t.Fatalf("EvaluateExpression: %v", err)
	}
	v, err := elementValue(rolled)
	if err != nil {
		t.Fatalf("elementValue: %v", err)
	}
	if v != 27 {
		t.Errorf("value = %v, want 27 (24+3)", v)
	}
}

func TestEvaluateExpressionParenExprPreservesGrouping(t *testing.T) {
	// (2+3)*4 must equal 20, not 2+3*4=14: the ParenExpr must force
	// evaluation order through to the final arithmetic string.
	paren := &ParenExpr{Inner: []Element{2.0, "+", 3.0}}
	rolled, err := EvaluateExpression(context.Background(), NewGenerator(&MaxEngine{}), []Element{paren, "*", 4.0})
	if err != nil {
		t.Fatalf("EvaluateExpression: %v", err)
	}
	v, err := elementValue(rolled)
	if err != nil {
		t.Fatalf("elementValue: %v", err)
	}
	if v != 20 {
		t.Errorf("value = %v, want 20", v)
	}
}

func TestEvaluateFunctionCallFloor(t *testing.T) {
	fn := &FunctionCall{Name: "floor", Args: [][]Element{{3.7}}}
	rolled, err := EvaluateExpression(context.Background(), NewGenerator(&MaxEngine{}), []Element{2.0, "+", fn})
	if err != nil {
		t.Fatalf("EvaluateExpression: %v", err)
	}
	v, err := elementValue(rolled)
	if err != nil {
		t.Fatalf("elementValue: %v", err)
	}
	if v != 5 {
		t.Errorf("value = %v, want 5 (2+floor(3.7))", v)
	}
}

func TestEvaluateExpressionEmptyIsError(t *testing.T) {
	if _, err := EvaluateExpression(context.Background(), NewGenerator(&MaxEngine{}), nil); err != ErrNilExpression {
		t.Errorf("expected ErrNilExpression, got %v", err)
	}
}
