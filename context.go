package dice

import (
	"context"

	"go.uber.org/atomic"
)

// MaxRolls is the default maximum number of individual die rolls (not
// modifier iterations — see the 1000-iteration cap on explode/re-roll/unique)
// that a single context is allowed to perform via RollBudget before Roll
// starts failing with ErrMaxRolls. It exists as a safety net against
// pathologically nested RollGroups, independent of the per-modifier
// iteration cap.
var MaxRolls int64 = 10000

// contextKey is a value for use with context.WithValue.
type contextKey string

func (k contextKey) String() string {
	return "github.com/rollwright/dice context value " + string(k)
}

const (
	// CtxKeyMaxRolls overrides MaxRolls for a single context, when set to an
	// int64 value.
	CtxKeyMaxRolls = contextKey("max-rolls")

	// ctxKeyRollBudget stores the *atomic.Int64 counter tracking rolls
	// performed so far within a context tree.
	ctxKeyRollBudget = contextKey("roll-budget")
)

// WithRollBudget returns a context carrying a fresh roll counter, scoped to
// that context and any children derived from it. Every single die roll
// (RollOnce, including those made by modifiers and inside RollGroups)
// performed with the resulting context (or a descendant of it) increments
// the shared counter and fails with ErrMaxRolls once the budget
// configured via CtxKeyMaxRolls (or MaxRolls, if unset) is exhausted.
//
// This supplements, rather than replaces, the per-modifier 1000-iteration
// cap: it bounds the *total* number of dice rolled while evaluating a single
// notation, including rolls performed deep inside nested RollGroups.
func WithRollBudget(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyRollBudget, atomic.NewInt64(0))
}

// rollBudget returns the *atomic.Int64 counter for ctx. If the context was
// never initialized with WithRollBudget it returns a fresh, unattached
// counter, so rolls made with such a context are never limited by the
// budget. This keeps ad hoc context.Background() calls (as used in tests)
// working without requiring every caller to remember WithRollBudget.
func rollBudget(ctx context.Context) *atomic.Int64 {
	if counter, ok := ctx.Value(ctxKeyRollBudget).(*atomic.Int64); ok {
		return counter
	}
	return atomic.NewInt64(0)
}

func maxRolls(ctx context.Context) int64 {
	if n, ok := ctx.Value(CtxKeyMaxRolls).(int64); ok {
		return n
	}
	return MaxRolls
}

// chargeRoll increments ctx's roll budget and returns ErrMaxRolls if doing so
// would exceed the context's configured maximum.
func chargeRoll(ctx context.Context) error {
	counter := rollBudget(ctx)
	if counter.Load() >= maxRolls(ctx) {
		return ErrMaxRolls
	}
	counter.Inc()
	return nil
}

// ContextTotalRollCount returns the number of rolls charged against ctx's
// roll budget so far, and whether ctx carries a budget at all.
func ContextTotalRollCount(ctx context.Context) (count int64, ok bool) {
	counter, ok := ctx.Value(ctxKeyRollBudget).(*atomic.Int64)
	if !ok {
		return 0, false
	}
	return counter.Load(), true
}
