package dice

import (
	"bytes"
	"context"
	"fmt"

	dicemath "github.com/rollwright/dice/math"
)

// A DiceRoll binds a parsed notation to one evaluation of it, plus its
// deterministic min/max/average bounds (§4.6, §6).
type DiceRoll struct {
	Notation     string
	Output       string
	Total        float64
	MinTotal     float64
	MaxTotal     float64
	AverageTotal float64

	Rolls ResultGroupElement

	expr []Element
}

// NewDiceRoll parses notation and returns an unrolled DiceRoll. Call Roll to
// actually sample it.
func NewDiceRoll(notation string) (*DiceRoll, error) {
	if notation == "" {
		return nil, NotationError("notation must not be empty")
	}
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	return &DiceRoll{Notation: notation, expr: expr}, nil
}

// Roll evaluates the parsed expression against gen (DefaultGenerator if
// nil), then computes minTotal/maxTotal by re-evaluating the same
// expression with the generator's engine swapped to MinEngine/MaxEngine —
// no global mutation, per §5/§9.
func (dr *DiceRoll) Roll(ctx context.Context, gen *Generator) error {
	if gen == nil {
		gen = DefaultGenerator
	}

	rolled, err := EvaluateExpression(ctx, gen, dr.expr)
	if err != nil {
		return err
	}
	dr.Rolls = rolled

	value, err := elementValue(rolled)
	if err != nil {
		return err
	}
	dr.Total = dicemath.Round2(value)

	if err := dr.computeBounds(ctx); err != nil {
		return err
	}
	dr.Output = dr.buildOutput()
	return nil
}

// computeBounds re-evaluates the parsed expression with the generator's
// engine swapped to MinEngine/MaxEngine to derive deterministic bounds. This
// never consumes the roll's own randomness, so it is also safe to call after
// reconstructing a DiceRoll from an import payload.
func (dr *DiceRoll) computeBounds(ctx context.Context) error {
	minGen := NewGenerator(&MinEngine{})
	minRolled, err := EvaluateExpression(ctx, minGen, dr.expr)
	if err != nil {
		return err
	}
	minValue, err := elementValue(minRolled)
	if err != nil {
		return err
	}
	dr.MinTotal = dicemath.Round2(minValue)

	maxGen := NewGenerator(&MaxEngine{})
	maxRolled, err := EvaluateExpression(ctx, maxGen, dr.expr)
	if err != nil {
		return err
	}
	maxValue, err := elementValue(maxRolled)
	if err != nil {
		return err
	}
	dr.MaxTotal = dicemath.Round2(maxValue)

	dr.AverageTotal = dicemath.Round2((dr.MinTotal + dr.MaxTotal) / 2)
	return nil
}

// buildOutput renders the spec's §6 output format: a single-node roll
// renders as "{notation}: {results} = {total}"; otherwise the full
// expression string interleaving rolled results with operators/numbers.
func (dr *DiceRoll) buildOutput() string {
	if len(dr.expr) == 1 {
		return fmt.Sprintf("%s: %s = %s", dr.Notation, elementString(dr.Rolls), formatNumber(dr.Total))
	}

	var buf bytes.Buffer
	switch v := dr.Rolls.(type) {
	case *ResultGroup:
		buf.WriteString(v.String())
	case *RollResults:
		buf.WriteString(v.String())
	default:
		buf.WriteString(elementString(dr.Rolls))
	}
	return fmt.Sprintf("%s: %s = %s", dr.Notation, buf.String(), formatNumber(dr.Total))
}

func elementString(el ResultGroupElement) string {
	switch v := el.(type) {
	case *ResultGroup:
		return v.String()
	case *RollResults:
		return v.String()
	case float64:
		return formatNumber(v)
	case string:
		return v
	default:
		return ""
	}
}
