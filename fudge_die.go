package dice

import (
	"bytes"
	"context"
	"fmt"
)

// FudgeDie is a die with nonBlanks faces of +1/-1 and the rest blank (0), as
// used by Fate/FUDGE. Its notation is "dF" (nonBlanks=2) or "dF.1"
// (nonBlanks=1). A FudgeDie can be emulated by evaluating "1d3-2" when
// nonBlanks=2.
type FudgeDie struct {
	Qty       int
	NonBlanks int // 1 or 2

	Modifiers   []Modifier
	Description *Description

	gen *Generator
}

// NewFudgeDie constructs a FudgeDie with the given quantity and nonBlanks
// face count. nonBlanks must be 1 or 2.
func NewFudgeDie(qty, nonBlanks int) (*FudgeDie, error) {
	if qty < 1 || qty > 999 {
		return nil, OutOfRange("die qty must be in [1, 999], got %d", qty)
	}
	if nonBlanks != 1 && nonBlanks != 2 {
		return nil, OutOfRange("fudge die nonBlanks must be 1 or 2, got %d", nonBlanks)
	}
	return &FudgeDie{Qty: qty, NonBlanks: nonBlanks}, nil
}

// Min is always -1 for a fudge die.
func (d *FudgeDie) Min() float64 { return -1 }

// Max is always +1 for a fudge die.
func (d *FudgeDie) Max() float64 { return 1 }

// Type reports TypeFudge.
func (d *FudgeDie) Type() DieType { return TypeFudge }

// Notation renders "qty dF" (nonBlanks=2) or "qty dF.1" (nonBlanks=1),
// followed by modifier notations.
func (d *FudgeDie) Notation() string {
	var buf bytes.Buffer
	if d.Qty != 1 {
		fmt.Fprintf(&buf, "%d", d.Qty)
	}
	buf.WriteString("dF")
	if d.NonBlanks == 1 {
		buf.WriteString(".1")
	}
	for _, m := range d.Modifiers {
		buf.WriteString(m.Notation())
	}
	return buf.String()
}

// RollOnce draws one fudge face per §3: nonBlanks=2 samples uniform{1..3}-2;
// nonBlanks=1 samples {1..6} and maps 1->-1, 6->+1, else 0.
func (d *FudgeDie) RollOnce(ctx context.Context) (*RollResult, error) {
	if err := chargeRoll(ctx); err != nil {
		return nil, err
	}
	gen := d.gen
	if gen == nil {
		gen = DefaultGenerator
	}

	var value float64
	if d.NonBlanks == 1 {
		n, err := gen.Integer(1, 6)
		if err != nil {
			return nil, err
		}
		switch n {
		case 1:
			value = -1
		case 6:
			value = 1
		default:
			value = 0
		}
	} else {
		n, err := gen.Integer(1, 3)
		if err != nil {
			return nil, err
		}
		value = float64(n - 2)
	}

	r := NewRollResult(value)
	r.SetDie(d)
	return r, nil
}

// Roll samples Qty independent fudge rolls, then applies the die's
// modifiers, identically to StandardDie.Roll.
func (d *FudgeDie) Roll(ctx context.Context, gen *Generator) (*RollResults, error) {
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
