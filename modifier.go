package dice

import (
	"bytes"
	"context"
	"fmt"
	"sort"
)

// maxModifierIterations bounds the explode/re-roll/unique loops so a
// pathological die (e.g. min==max with a matching compare point) cannot spin
// forever. Hitting the cap is not itself an error: the modifier simply stops
// producing further effects.
const maxModifierIterations = 1000

// ModifierContext is the die or group a Modifier runs against. It exposes
// just enough of the owner to materialize default compare points and to
// reroll.
type ModifierContext interface {
	Min() float64
	Max() float64
	RollOnce(ctx context.Context) (*RollResult, error)
}

// A Modifier transforms a RollResults container in place. Modifiers are
// strictly ordered within a die by Order ascending; two modifiers with equal
// Order preserve insertion order (SortModifiers is a stable sort).
type Modifier interface {
	Name() Flag
	Order() int
	Notation() string
	Run(ctx context.Context, results *RollResults, mc ModifierContext) error
}

// SortModifiers stably sorts modifiers by Order ascending.
func SortModifiers(mods []Modifier) {
	sort.SliceStable(mods, func(i, j int) bool {
		return mods[i].Order() < mods[j].Order()
	})
}

// ---- min / max -------------------------------------------------------

// MinModifier clamps every roll in a container to a floor.
type MinModifier struct {
	Bound float64
}

func (m *MinModifier) Name() Flag     { return FlagMin }
func (m *MinModifier) Order() int     { return 1 }
func (m *MinModifier) Notation() string {
	return "min" + formatNumber(m.Bound)
}

// Run implements the min modifier: any roll below Bound is raised to it.
func (m *MinModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	for _, r := range results.Rolls {
		if r.Value() < m.Bound {
			r.SetValue(m.Bound)
			r.AddFlag(FlagMin)
		}
	}
	return nil
}

// MaxModifier clamps every roll in a container to a ceiling.
type MaxModifier struct {
	Bound float64
}

func (m *MaxModifier) Name() Flag     { return FlagMax }
func (m *MaxModifier) Order() int     { return 2 }
func (m *MaxModifier) Notation() string {
	return "max" + formatNumber(m.Bound)
}

// Run implements the max modifier: any roll above Bound is lowered to it.
func (m *MaxModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	for _, r := range results.Rolls {
		if r.Value() > m.Bound {
			r.SetValue(m.Bound)
			r.AddFlag(FlagMax)
		}
	}
	return nil
}

// ---- explode -----------------------------------------------------------

// ExplodeModifier rerolls and appends an extra die each time a roll matches
// its compare point. With Compound set, the chain collapses into a single
// RollResult; with Penetrate set, each exploded addition is decremented by 1.
type ExplodeModifier struct {
	CP        *ComparePoint // nil until materialized from context.max
	Compound  bool
	Penetrate bool
}

func (m *ExplodeModifier) Name() Flag {
	if m.Compound {
		return FlagCompound
	}
	return FlagExplode
}
func (m *ExplodeModifier) Order() int { return 3 }

func (m *ExplodeModifier) Notation() string {
	var buf bytes.Buffer
	buf.WriteString("!")
	if m.Compound {
		buf.WriteString("!")
	}
	if m.Penetrate {
		buf.WriteString("p")
	}
	if m.CP != nil {
		buf.WriteString(m.CP.String())
	}
	return buf.String()
}

func (m *ExplodeModifier) materialize(mc ModifierContext) {
	if m.CP == nil {
		m.CP, _ = NewComparePoint("=", mc.Max())
	}
}

// Run implements the explode modifier per §4.4: each original roll may chain
// into further rolls for as long as the newest roll matches the compare
// point, up to the iteration cap. If context.min == context.max the modifier
// refuses to run (it would never terminate).
func (m *ExplodeModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	if mc.Min() == mc.Max() {
		return InvalidDieAction("explode on a die with min == max would not terminate")
	}
	m.materialize(mc)

	out := make([]*RollResult, 0, len(results.Rolls))
	for _, r := range results.Rolls {
		chain := []*RollResult{r}
		iterations := 0
		for m.CP.Matches(chain[len(chain)-1].Value()) && iterations < maxModifierIterations {
			prev := chain[len(chain)-1]
			prev.AddFlag(FlagExplode)
			if m.Penetrate {
				prev.AddFlag(FlagPenetrate)
			}
			next, err := mc.RollOnce(ctx)
			if err != nil {
				return err
			}
			if m.Penetrate {
				next.SetValue(next.Value() - 1)
			}
			chain = append(chain, next)
			iterations++
		}
		if m.Compound && len(chain) > 1 {
			sum := 0.0
			for _, c := range chain {
				sum += c.Value()
			}
			merged := NewRollResult(chain[0].InitialValue())
			merged.SetValue(sum)
			merged.AddFlag(FlagExplode)
			merged.AddFlag(FlagCompound)
			if m.Penetrate {
				merged.AddFlag(FlagPenetrate)
			}
			out = append(out, merged)
		} else {
			out = append(out, chain...)
		}
	}
	results.Rolls = out
	return nil
}

// ---- re-roll ------------------------------------------------------------

// RerollModifier replaces a roll's value while it matches the compare point.
// With Once set, at most one replacement happens per roll.
type RerollModifier struct {
	CP   *ComparePoint
	Once bool
}

func (m *RerollModifier) Name() Flag {
	if m.Once {
		return FlagRerollOnce
	}
	return FlagReroll
}
func (m *RerollModifier) Order() int { return 4 }

func (m *RerollModifier) Notation() string {
	var buf bytes.Buffer
	buf.WriteString("r")
	if m.Once {
		buf.WriteString("o")
	}
	if m.CP != nil {
		buf.WriteString(m.CP.String())
	}
	return buf.String()
}

func (m *RerollModifier) materialize(mc ModifierContext) {
	if m.CP == nil {
		m.CP, _ = NewComparePoint("=", mc.Min())
	}
}

// Run implements the re-roll modifier per §4.4.
func (m *RerollModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	if mc.Min() == mc.Max() {
		return InvalidDieAction("re-roll on a die with min == max would not terminate")
	}
	m.materialize(mc)

	flag := FlagReroll
	if m.Once {
		flag = FlagRerollOnce
	}
	for _, r := range results.Rolls {
		iterations := 0
		for m.CP.Matches(r.Value()) && iterations < maxModifierIterations {
			next, err := mc.RollOnce(ctx)
			if err != nil {
				return err
			}
			r.SetValue(next.Value())
			r.AddFlag(flag)
			iterations++
			if m.Once {
				break
			}
		}
	}
	return nil
}

// ---- unique -------------------------------------------------------------

// UniqueModifier resamples any roll (after the first) that duplicates an
// earlier roll, optionally restricted to duplicates matching a compare
// point. The first occurrence is never resampled.
type UniqueModifier struct {
	CP   *ComparePoint // nil means any duplicate is eligible
	Once bool
}

func (m *UniqueModifier) Name() Flag {
	if m.Once {
		return FlagUniqueOnce
	}
	return FlagUnique
}
func (m *UniqueModifier) Order() int { return 5 }

func (m *UniqueModifier) Notation() string {
	var buf bytes.Buffer
	buf.WriteString("u")
	if m.Once {
		buf.WriteString("o")
	}
	if m.CP != nil {
		buf.WriteString(m.CP.String())
	}
	return buf.String()
}

func (m *UniqueModifier) duplicatesEarlier(results *RollResults, idx int) bool {
	v := results.Rolls[idx].Value()
	for i := 0; i < idx; i++ {
		if results.Rolls[i].Value() == v {
			return true
		}
	}
	return false
}

// Run implements the unique modifier per §4.4 and its asymmetric compare
// point semantics (see DESIGN.md's open-question resolution).
func (m *UniqueModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	if mc.Min() == mc.Max() {
		return InvalidDieAction("unique on a die with min == max would not terminate")
	}

	flag := FlagUnique
	if m.Once {
		flag = FlagUniqueOnce
	}
	for i := 1; i < len(results.Rolls); i++ {
		iterations := 0
		for {
			r := results.Rolls[i]
			eligible := m.CP == nil || m.CP.Matches(r.Value())
			if !eligible || !m.duplicatesEarlier(results, i) {
				break
			}
			if iterations >= maxModifierIterations {
				break
			}
			next, err := mc.RollOnce(ctx)
			if err != nil {
				return err
			}
			r.SetValue(next.Value())
			r.AddFlag(flag)
			iterations++
			if m.Once {
				break
			}
		}
	}
	return nil
}

// ---- keep / drop ----------------------------------------------------

// KeepDropEnd selects which tail of a sorted value list a keep/drop modifier
// targets.
type KeepDropEnd string

// Valid KeepDropEnd values.
const (
	EndHighest KeepDropEnd = "h"
	EndLowest  KeepDropEnd = "l"
)

// keepDropIndices returns, for n values sorted ascending by value (stable tie
// break on original index), the set of indices (into the *sorted* order)
// that should be dropped for the given op/end/qty combination. op is "k" or
// "d"
func keepDropIndices(n int, op string, end KeepDropEnd, qty int) (map[int]bool, error) {
	if qty < 1 {
		return nil, OutOfRange("keep/drop qty must be >= 1, got %d", qty)
	}
	if end != EndHighest && end != EndLowest {
		return nil, OutOfRange("keep/drop end must be h or l, got %q", end)
	}
	if qty > n {
		qty = n
	}
	drop := make(map[int]bool, n)
	switch {
	case op == "k" && end == EndHighest: // keep-h: drop [0, n-qty)
		for i := 0; i < n-qty; i++ {
			drop[i] = true
		}
	case op == "k" && end == EndLowest: // keep-l: drop [qty, n)
		for i := qty; i < n; i++ {
			drop[i] = true
		}
	case op == "d" && end == EndLowest: // drop-l: drop [0, qty)
		for i := 0; i < qty; i++ {
			drop[i] = true
		}
	case op == "d" && end == EndHighest: // drop-h: drop [n-qty, n)
		for i := n - qty; i < n; i++ {
			drop[i] = true
		}
	}
	return drop, nil
}

type sortedRoll struct {
	index int
	value float64
}

func sortRollsByValue(results *RollResults) []sortedRoll {
	sorted := make([]sortedRoll, len(results.Rolls))
	for i, r := range results.Rolls {
		sorted[i] = sortedRoll{index: i, value: r.Value()}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].value < sorted[j].value })
	return sorted
}

// KeepModifier marks every roll but the top/bottom Qty as dropped.
type KeepModifier struct {
	End KeepDropEnd
	Qty int
}

func (m *KeepModifier) Name() Flag     { return FlagDrop }
func (m *KeepModifier) Order() int     { return 6 }
func (m *KeepModifier) Notation() string {
	return fmt.Sprintf("k%s%d", m.End, m.Qty)
}

// Run implements the keep modifier per §4.4/§8 invariant 4.
func (m *KeepModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	sorted := sortRollsByValue(results)
	drop, err := keepDropIndices(len(sorted), "k", m.End, m.Qty)
	if err != nil {
		return err
	}
	for pos, entry := range sorted {
		if drop[pos] {
			results.Rolls[entry.index].AddFlag(FlagDrop)
			results.Rolls[entry.index].SetUseInTotal(false)
		}
	}
	return nil
}

// DropModifier marks the bottom/top Qty rolls as dropped.
type DropModifier struct {
	End KeepDropEnd
	Qty int
}

func (m *DropModifier) Name() Flag     { return FlagDrop }
func (m *DropModifier) Order() int     { return 7 }
func (m *DropModifier) Notation() string {
	return fmt.Sprintf("d%s%d", m.End, m.Qty)
}

// Run implements the drop modifier per §4.4/§8 invariant 4.
func (m *DropModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	sorted := sortRollsByValue(results)
	drop, err := keepDropIndices(len(sorted), "d", m.End, m.Qty)
	if err != nil {
		return err
	}
	for pos, entry := range sorted {
		if drop[pos] {
			results.Rolls[entry.index].AddFlag(FlagDrop)
			results.Rolls[entry.index].SetUseInTotal(false)
		}
	}
	return nil
}

// ---- target ---------------------------------------------------------

// TargetModifier converts each roll's value into a success/failure tally:
// calculationValue becomes 1, -1, or 0.
type TargetModifier struct {
	Success *ComparePoint
	Failure *ComparePoint // optional
}

func (m *TargetModifier) Name() Flag { return FlagTargetSuccess }
func (m *TargetModifier) Order() int { return 8 }

func (m *TargetModifier) Notation() string {
	var buf bytes.Buffer
	if m.Success != nil {
		buf.WriteString(m.Success.String())
	}
	if m.Failure != nil {
		buf.WriteString("f")
		buf.WriteString(m.Failure.String())
	}
	return buf.String()
}

// Run implements the target modifier per §4.4.
func (m *TargetModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	if m.Success == nil {
		return MissingArgument("target modifier requires a success compare point")
	}
	for _, r := range results.Rolls {
		switch {
		case m.Success.Matches(r.Value()):
			r.AddFlag(FlagTargetSuccess)
			r.SetCalculationValue(1)
		case m.Failure != nil && m.Failure.Matches(r.Value()):
			r.AddFlag(FlagTargetFailure)
			r.SetCalculationValue(-1)
		default:
			r.SetCalculationValue(0)
		}
	}
	return nil
}

// ---- critical success / failure -------------------------------------

// CriticalModifier flags rolls matching a compare point without altering
// value, calculationValue, or useInTotal.
type CriticalModifier struct {
	Success bool // true = critical-success (default CP = max), false = critical-failure (default CP = min)
	CP      *ComparePoint
}

func (m *CriticalModifier) Name() Flag {
	if m.Success {
		return FlagCriticalSuccess
	}
	return FlagCriticalFailure
}

func (m *CriticalModifier) Order() int {
	if m.Success {
		return 9
	}
	return 10
}

func (m *CriticalModifier) Notation() string {
	if m.Success {
		return "cs" + cpSuffix(m.CP)
	}
	return "cf" + cpSuffix(m.CP)
}

func cpSuffix(cp *ComparePoint) string {
	if cp == nil {
		return ""
	}
	return cp.String()
}

func (m *CriticalModifier) materialize(mc ModifierContext) {
	if m.CP != nil {
		return
	}
	if m.Success {
		m.CP, _ = NewComparePoint("=", mc.Max())
	} else {
		m.CP, _ = NewComparePoint("=", mc.Min())
	}
}

// Run implements critical-success/critical-failure per §4.4: flag-only.
func (m *CriticalModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	m.materialize(mc)
	flag := m.Name()
	for _, r := range results.Rolls {
		if m.CP.Matches(r.Value()) {
			r.AddFlag(flag)
		}
	}
	return nil
}

// ---- sorting ----------------------------------------------------------

// SortDirection is the direction a SortingModifier orders rolls.
type SortDirection string

// Valid SortDirection values.
const (
	SortAscending  SortDirection = "a"
	SortDescending SortDirection = "d"
)

// SortingModifier stable-sorts a container's rolls by value.
type SortingModifier struct {
	Direction SortDirection
}

func (m *SortingModifier) Name() Flag     { return Flag("") }
func (m *SortingModifier) Order() int     { return 11 }
func (m *SortingModifier) Notation() string {
	return "s" + string(m.Direction)
}

// Run implements the sorting modifier per §4.4.
func (m *SortingModifier) Run(ctx context.Context, results *RollResults, mc ModifierContext) error {
	asc := m.Direction != SortDescending
	sort.SliceStable(results.Rolls, func(i, j int) bool {
		if asc {
			return results.Rolls[i].Value() < results.Rolls[j].Value()
		}
		return results.Rolls[i].Value() > results.Rolls[j].Value()
	})
	return nil
}

// SortResultGroup recursively stable-sorts every RollResults nested within a
// ResultGroup, honoring the sorting modifier's requirement to recurse into
// nested groups (§4.4).
func SortResultGroup(g *ResultGroup, direction SortDirection) {
	asc := direction != SortDescending
	for _, el := range g.Elements {
		switch v := el.(type) {
		case *RollResults:
			sort.SliceStable(v.Rolls, func(i, j int) bool {
				if asc {
					return v.Rolls[i].Value() < v.Rolls[j].Value()
				}
				return v.Rolls[i].Value() > v.Rolls[j].Value()
			})
		case *ResultGroup:
			SortResultGroup(v, direction)
		}
	}
}
