package dice

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	dicemath "github.com/rollwright/dice/math"
)

// Parse turns a dice notation string into the []Element sequence
// EvaluateExpression consumes. participle handles the context-free shape of
// the grammar (grammar.go); this function supplies the handful of rules
// that are easier expressed as a semantic pass over the parsed tree than as
// static struct tags: parse-time arithmetic evaluation of
// IntegerOrExpression, description attachment, and the keep/drop operator
// letter defaults.
func Parse(notation string) ([]Element, error) {
	if notation == "" {
		return nil, MissingArgument("notation")
	}

	var ast astNotation
	if err := notationParser.ParseString("", notation, &ast); err != nil {
		return nil, toSyntaxError(notation, err)
	}
	return buildExpression(ast.Expr)
}

func toSyntaxError(notation string, err error) error {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return &SyntaxError{
			Notation: notation,
			Offset:   pos.Offset,
			Line:     pos.Line,
			Column:   pos.Column,
			Message:  perr.Message(),
		}
	}
	return &SyntaxError{Notation: notation, Message: err.Error()}
}

// ---- expressions / factors ----------------------------------------------

func buildExpression(ae *astExpression) ([]Element, error) {
	head, err := buildFactor(ae.Head)
	if err != nil {
		return nil, err
	}
	els := []Element{head}
	for _, rest := range ae.Rest {
		factor, err := buildFactor(rest.Factor)
		if err != nil {
			return nil, err
		}
		els = append(els, rest.Op, factor)
	}
	return els, nil
}

func buildFactor(af *astFactor) (Element, error) {
	switch {
	case af.Func != nil:
		args := make([][]Element, len(af.Func.Args))
		for i, a := range af.Func.Args {
			els, err := buildExpression(a)
			if err != nil {
				return nil, err
			}
			args[i] = els
		}
		return &FunctionCall{Name: af.Func.Name, Args: args}, nil
	case af.RollGroup != nil:
		return buildRollGroup(af.RollGroup)
	case af.Dice != nil:
		return buildDice(af.Dice)
	case af.Paren != nil:
		inner, err := buildExpression(af.Paren)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil
	case af.Number != nil:
		return af.Number.Value, nil
	}
	return nil, InvalidArgument("empty factor in parsed expression")
}

// ---- dice -------------------------------------------------------------

func buildDice(ad *astDice) (Dice, error) {
	qty := 1
	if ad.Qty != nil {
		q, err := evalIntegerOrExpression(ad.Qty)
		if err != nil {
			return nil, err
		}
		qty = q
	}

	mods := make([]Modifier, 0, len(ad.Modifiers))
	for _, am := range ad.Modifiers {
		m, err := buildModifier(am)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}

	var desc *Description
	if ad.Desc != nil {
		d, err := buildDescription(ad.Desc)
		if err != nil {
			return nil, err
		}
		desc = d
	}

	switch {
	case ad.Kind.Percent:
		pd, err := NewPercentileDie(qty)
		if err != nil {
			return nil, err
		}
		pd.Modifiers, pd.Description = mods, desc
		return pd, nil
	case ad.Kind.Fudge != nil:
		nonBlanks := 2
		if ad.Kind.Fudge.Sub != nil {
			nonBlanks = *ad.Kind.Fudge.Sub
		}
		fd, err := NewFudgeDie(qty, nonBlanks)
		if err != nil {
			return nil, err
		}
		fd.Modifiers, fd.Description = mods, desc
		return fd, nil
	case ad.Kind.Sides != nil:
		sides, err := evalIntegerOrExpression(ad.Kind.Sides)
		if err != nil {
			return nil, err
		}
		sd, err := NewStandardDie(qty, sides)
		if err != nil {
			return nil, err
		}
		sd.Modifiers, sd.Description = mods, desc
		return sd, nil
	}
	return nil, InvalidArgument("dice node is missing its sides/percent/fudge kind")
}

// ---- roll groups --------------------------------------------------------

func buildRollGroup(ag *astRollGroup) (*RollGroup, error) {
	subs := make([][]Element, len(ag.Exprs))
	for i, e := range ag.Exprs {
		els, err := buildExpression(e)
		if err != nil {
			return nil, err
		}
		subs[i] = els
	}
	rg := NewRollGroup(subs...)

	for _, am := range ag.Modifiers {
		gm, err := buildGroupModifier(am)
		if err != nil {
			return nil, err
		}
		rg.Modifiers = append(rg.Modifiers, gm)
	}

	if ag.Desc != nil {
		d, err := buildDescription(ag.Desc)
		if err != nil {
			return nil, err
		}
		rg.Description = d
	}
	return rg, nil
}

// ---- modifiers ----------------------------------------------------------

// parseKeepDropOp maps a matched keep/drop operator spelling to the end it
// targets and whether it's a keep ("k") or a drop ("d"). A bare "k" keeps
// the highest rolls (4d6k3 keeps the top 3); a bare "d" drops the lowest
// (4d6d1 drops the bottom 1).
func parseKeepDropOp(op string) (KeepDropEnd, string) {
	switch op {
	case "kh":
		return EndHighest, "k"
	case "kl":
		return EndLowest, "k"
	case "dh":
		return EndHighest, "d"
	case "dl":
		return EndLowest, "d"
	case "k":
		return EndHighest, "k"
	default: // "d"
		return EndLowest, "d"
	}
}

func buildModifier(am *astModifier) (Modifier, error) {
	switch {
	case am.Explode != nil:
		e := am.Explode
		cp, err := buildOptionalComparePoint(e.CP)
		if err != nil {
			return nil, err
		}
		return &ExplodeModifier{CP: cp, Compound: e.Bang2, Penetrate: e.Pen}, nil

	case am.Reroll != nil:
		r := am.Reroll
		cp, err := buildOptionalComparePoint(r.CP)
		if err != nil {
			return nil, err
		}
		return &RerollModifier{CP: cp, Once: r.Kind == "ro"}, nil

	case am.Unique != nil:
		u := am.Unique
		cp, err := buildOptionalComparePoint(u.CP)
		if err != nil {
			return nil, err
		}
		return &UniqueModifier{CP: cp, Once: u.Kind == "uo"}, nil

	case am.KeepDrop != nil:
		kd := am.KeepDrop
		end, op := parseKeepDropOp(kd.Op)
		if op == "k" {
			return &KeepModifier{End: end, Qty: kd.Qty}, nil
		}
		return &DropModifier{End: end, Qty: kd.Qty}, nil

	case am.Crit != nil:
		c := am.Crit
		cp, err := buildOptionalComparePoint(c.CP)
		if err != nil {
			return nil, err
		}
		return &CriticalModifier{Success: c.Kind == "cs", CP: cp}, nil

	case am.Sort != nil:
		return &SortingModifier{Direction: sortDirection(am.Sort.Kind)}, nil

	case am.MinMax != nil:
		if am.MinMax.Kind == "min" {
			return &MinModifier{Bound: am.MinMax.Bound}, nil
		}
		return &MaxModifier{Bound: am.MinMax.Bound}, nil

	case am.Target != nil:
		success, err := buildComparePoint(am.Target.Success)
		if err != nil {
			return nil, err
		}
		failure, err := buildOptionalComparePoint(am.Target.Failure)
		if err != nil {
			return nil, err
		}
		return &TargetModifier{Success: success, Failure: failure}, nil
	}
	return nil, InvalidArgument("unrecognized modifier")
}

// buildGroupModifier converts the same astModifier alternation into a
// GroupModifier, valid only for keep/drop/sort: the rest of the modifier
// kinds operate on individual die rolls and have no group-level meaning.
func buildGroupModifier(am *astModifier) (GroupModifier, error) {
	switch {
	case am.KeepDrop != nil:
		kd := am.KeepDrop
		end, op := parseKeepDropOp(kd.Op)
		if op == "k" {
			return &GroupKeepModifier{End: end, Qty: kd.Qty}, nil
		}
		return &GroupDropModifier{End: end, Qty: kd.Qty}, nil
	case am.Sort != nil:
		return &GroupSortModifier{Direction: sortDirection(am.Sort.Kind)}, nil
	default:
		return nil, InvalidDieAction("modifier is only valid on individual dice, not a roll group")
	}
}

func sortDirection(kind string) SortDirection {
	if kind == "sd" {
		return SortDescending
	}
	return SortAscending
}

func buildComparePoint(ac *astComparePoint) (*ComparePoint, error) {
	return NewComparePoint(ac.Op, ac.Value)
}

func buildOptionalComparePoint(ac *astComparePoint) (*ComparePoint, error) {
	if ac == nil {
		return nil, nil
	}
	return buildComparePoint(ac)
}

// ---- descriptions -------------------------------------------------------

func buildDescription(ad *astDescription) (*Description, error) {
	switch {
	case ad.Line != "":
		text := strings.TrimPrefix(ad.Line, "//")
		text = strings.TrimPrefix(text, "#")
		return NewDescription(strings.TrimSpace(text), DescriptionInline)
	case ad.Bracket != "":
		text := strings.TrimSuffix(strings.TrimPrefix(ad.Bracket, "["), "]")
		return NewDescription(strings.TrimSpace(text), DescriptionMultiline)
	case ad.Multi != "":
		text := strings.TrimSuffix(strings.TrimPrefix(ad.Multi, "/*"), "*/")
		return NewDescription(strings.TrimSpace(text), DescriptionMultiline)
	}
	return nil, nil
}

// ---- IntegerOrExpression / pure-arithmetic sub-grammar -------------------

func evalIntegerOrExpression(aioe *astIntegerOrExpression) (int, error) {
	if aioe.Int != nil {
		return *aioe.Int, nil
	}
	if aioe.Expr != nil {
		v, err := dicemath.Evaluate(arithExprString(aioe.Expr))
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	return 0, InvalidArgument("empty integer-or-expression")
}

func arithExprString(ae *astArithExpr) string {
	var b strings.Builder
	b.WriteString(arithFactorString(ae.Head))
	for _, r := range ae.Rest {
		b.WriteString(r.Op)
		b.WriteString(arithFactorString(r.Factor))
	}
	return b.String()
}

func arithFactorString(af *astArithFactor) string {
	switch {
	case af.Func != nil:
		var b strings.Builder
		b.WriteString(af.Func.Name)
		b.WriteByte('(')
		for i, a := range af.Func.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(arithExprString(a))
		}
		b.WriteByte(')')
		return b.String()
	case af.Number != nil:
		return formatNumber(af.Number.Value)
	case af.Paren != nil:
		return "(" + arithExprString(af.Paren) + ")"
	}
	return ""
}
