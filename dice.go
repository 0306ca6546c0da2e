package dice

import (
	"bytes"
	"context"
	"fmt"
	"math"
)

// Dice is the capability set every die kind (standard, percentile, fudge)
// satisfies: bounds, notation rendering, and the two ways to sample it.
type Dice interface {
	Min() float64
	Max() float64
	Notation() string
	Type() DieType
	Roll(ctx context.Context, gen *Generator) (*RollResults, error)
	RollOnce(ctx context.Context) (*RollResult, error)
}

var (
	_ Dice = (*StandardDie)(nil)
	_ Dice = (*PercentileDie)(nil)
	_ Dice = (*FudgeDie)(nil)
)

// StandardDie is an integer die with qty independent rolls in [min, max].
// Percentile dice are a StandardDie with sides fixed at 100 and a notation
// override; see PercentileDie.
type StandardDie struct {
	Qty   int
	Sides int

	// minVal/maxVal default to 1/Sides respectively when nil.
	minVal *float64
	maxVal *float64

	Modifiers   []Modifier
	Description *Description

	gen *Generator // set for the duration of Roll/RollOnce
}

// NewStandardDie constructs a StandardDie, validating qty and sides per
// §4.3. A non-positive Sides is OutOfRange; qty outside [1,999] is
// OutOfRange.
func NewStandardDie(qty, sides int) (*StandardDie, error) {
	if sides < 1 {
		return nil, OutOfRange("die sides must be >= 1, got %d", sides)
	}
	if qty < 1 || qty > 999 {
		return nil, OutOfRange("die qty must be in [1, 999], got %d", qty)
	}
	return &StandardDie{Qty: qty, Sides: sides}, nil
}

// SetBounds overrides the die's min/max sampling bounds (both must be
// finite).
func (d *StandardDie) SetBounds(min, max float64) error {
	if isNonFinite(min) || isNonFinite(max) {
		return InvalidArgument("die min/max must be finite")
	}
	d.minVal, d.maxVal = &min, &max
	return nil
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Min returns the lowest value this die can sample.
func (d *StandardDie) Min() float64 {
	if d.minVal != nil {
		return *d.minVal
	}
	return 1
}

// Max returns the highest value this die can sample.
func (d *StandardDie) Max() float64 {
	if d.maxVal != nil {
		return *d.maxVal
	}
	return float64(d.Sides)
}

// Type reports the die kind for serialization/notation purposes.
func (d *StandardDie) Type() DieType { return TypeStandard }

// Notation renders the die as "qty d sides" followed by each modifier's own
// notation, in order.
func (d *StandardDie) Notation() string {
	var buf bytes.Buffer
	if d.Qty != 1 {
		fmt.Fprintf(&buf, "%d", d.Qty)
	}
	buf.WriteString("d")
	fmt.Fprintf(&buf, "%d", d.Sides)
	for _, m := range d.Modifiers {
		buf.WriteString(m.Notation())
	}
	return buf.String()
}

// RollOnce draws one value in [Min, Max] and wraps it in a RollResult
// carrying an informational back-reference to d.
func (d *StandardDie) RollOnce(ctx context.Context) (*RollResult, error) {
	if err := chargeRoll(ctx); err != nil {
		return nil, err
	}
	gen := d.gen
	if gen == nil {
		gen = DefaultGenerator
	}
	v, err := gen.Integer(int(d.Min()), int(d.Max()))
	if err != nil {
		return nil, err
	}
	r := NewRollResult(float64(v))
	r.SetDie(d)
	return r, nil
}

// Roll samples Qty independent rolls, then applies the die's modifiers in
// order-ascending sequence per §4.3.
func (d *StandardDie) Roll(ctx context.Context, gen *Generator) (*RollResults, error) {
	d.gen = gen
	defer func() { d.gen = nil }()

	rolls := make([]*RollResult, d.Qty)
	for i := 0; i < d.Qty; i++ {
		r, err := d.RollOnce(ctx)
		if err != nil {
			return nil, err
		}
		rolls[i] = r
	}
	results := NewRollResults(rolls...)

	mods := append([]Modifier(nil), d.Modifiers...)
	SortModifiers(mods)
	for _, m := range mods {
		if err := m.Run(ctx, results, d); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// PercentileDie is a StandardDie fixed to 100 sides, rendering its notation
// as "d%" unless Explicit is set (in which case it renders as an ordinary
// d100).
type PercentileDie struct {
	StandardDie
	Explicit bool
}

// NewPercentileDie constructs a PercentileDie with the given quantity.
func NewPercentileDie(qty int) (*PercentileDie, error) {
	std, err := NewStandardDie(qty, 100)
	if err != nil {
		return nil, err
	}
	return &PercentileDie{StandardDie: *std}, nil
}

// Type reports TypePercentile.
func (d *PercentileDie) Type() DieType { return TypePercentile }

// Notation renders "qty d%" (or "qty d100" when Explicit), followed by
// modifier notations.
func (d *PercentileDie) Notation() string {
	var buf bytes.Buffer
	if d.Qty != 1 {
		fmt.Fprintf(&buf, "%d", d.Qty)
	}
	if d.Explicit {
		buf.WriteString("d100")
	} else {
		buf.WriteString("d%")
	}
	for _, m := range d.Modifiers {
		buf.WriteString(m.Notation())
	}
	return buf.String()
}

// RollOnce is identical to StandardDie's, with the back-reference pointed at
// the PercentileDie wrapper instead of the embedded StandardDie.
func (d *PercentileDie) RollOnce(ctx context.Context) (*RollResult, error) {
	r, err := d.StandardDie.RollOnce(ctx)
	if err != nil {
		return nil, err
	}
	r.SetDie(d)
	return r, nil
}

// Roll repeats StandardDie.Roll's steps but runs modifiers against d so
// defaulted compare points see PercentileDie's Min/Max (identical to the
// embedded die's, but kept for interface-identity symmetry with Fudge).
func (d *PercentileDie) Roll(ctx context.Context, gen *Generator) (*RollResults, error) {
	d.gen = gen
	defer func() { d.gen = nil }()

	rolls := make([]*RollResult, d.Qty)
	for i := 0; i < d.Qty; i++ {
		r, err := d.RollOnce(ctx)
		if err != nil {
			return nil, err
		}
		rolls[i] = r
	}
	results := NewRollResults(rolls...)

	mods := append([]Modifier(nil), d.Modifiers...)
	SortModifiers(mods)
	for _, m := range mods {
		if err := m.Run(ctx, results, d); err != nil {
			return nil, err
		}
	}
	return results, nil
}
