package dice

import (
	"github.com/alecthomas/participle/v2"
)

// The AST types below mirror the PEG sketch in §4.5. participle builds a
// parser directly from these struct tags; parse.go walks the resulting tree
// into the []Element shape the evaluator understands, performing the
// grammar's few context-sensitive rules (parse-time arithmetic evaluation
// of IntegerOrExpression, description attachment, bare-compare-point ->
// target-modifier inference) that don't fit cleanly into static grammar
// tags.

// astNotation is the Main = Expression entry rule.
type astNotation struct {
	Expr *astExpression `parser:"@@"`
}

// astExpression is Factor (Op Factor)*, left-to-right, with no precedence
// climbing: operator precedence is left to govaluate when the evaluator
// later re-stringifies and arithmetic-evaluates the rolled expression.
type astExpression struct {
	Head *astFactor   `parser:"@@"`
	Rest []*astOpTerm `parser:"@@*"`
}

type astOpTerm struct {
	Op     string     `parser:"@(\"**\"|\"*\"|\"^\"|\"%\"|\"/\"|\"+\"|\"-\")"`
	Factor *astFactor `parser:"@@"`
}

// astFactor = MathFunction | RollGroup | Dice | "(" Expression ")" | Number
type astFactor struct {
	Func      *astFuncCall   `parser:"  @@"`
	RollGroup *astRollGroup  `parser:"| @@"`
	Dice      *astDice       `parser:"| @@"`
	Paren     *astExpression `parser:"| \"(\" @@ \")\""`
	Number    *astNumber     `parser:"| @@"`
}

type astNumber struct {
	Value float64 `parser:"@Float|@Int"`
}

type astFuncCall struct {
	Name string           `parser:"@Ident \"(\""`
	Args []*astExpression `parser:"@@ (\",\" @@)* \")\""`
}

// astArithExpr/astArithFactor/astArithFuncCall duplicate the arithmetic
// subset of astExpression (no Dice, no RollGroup), for use inside
// IntegerOrExpression, which the grammar restricts to pure arithmetic.
type astArithExpr struct {
	Head *astArithFactor   `parser:"@@"`
	Rest []*astArithOpTerm `parser:"@@*"`
}

type astArithOpTerm struct {
	Op     string          `parser:"@(\"**\"|\"*\"|\"^\"|\"%\"|\"/\"|\"+\"|\"-\")"`
	Factor *astArithFactor `parser:"@@"`
}

type astArithFactor struct {
	Func   *astArithFuncCall `parser:"  @@"`
	Number *astNumber        `parser:"| @@"`
	Paren  *astArithExpr     `parser:"| \"(\" @@ \")\""`
}

type astArithFuncCall struct {
	Name string          `parser:"@Ident \"(\""`
	Args []*astArithExpr `parser:"@@ (\",\" @@)* \")\""`
}

// astIntegerOrExpression is IntegerOrExpression: a bare integer literal, or
// a parenthesized pure-arithmetic expression evaluated at parse time.
type astIntegerOrExpression struct {
	Int  *int          `parser:"  @Int"`
	Expr *astArithExpr `parser:"| \"(\" @@ \")\""`
}

// astDice = (StandardDie | PercentileDie | FudgeDie) Modifier* Description?
//
// The lexer has no lookahead, so it tokenizes any run of adjacent letters as
// a single Ident (lexer.go's notationLexer comment). "d6"/"d%" split into
// separate tokens because a digit or "%" breaks the run, but "dF" never
// does, so the fudge kind is matched as one combined "dF" token instead of a
// standalone "d" dispatching into a shared astDiceKind.
type astDice struct {
	Qty       *astIntegerOrExpression `parser:"@@?"`
	Kind      *astDiceKind            `parser:"@@"`
	Modifiers []*astModifier          `parser:"@@*"`
	Desc      *astDescription         `parser:"@@?"`
}

type astDiceKind struct {
	Percent bool                    `parser:"(  \"d\" @\"%\""`
	Fudge   *astFudgeSuffix         `parser:" | @@"`
	Sides   *astIntegerOrExpression `parser:" | \"d\" @@ )"`
}

type astFudgeSuffix struct {
	DF  string `parser:"@\"dF\""`
	Sub *int   `parser:"( \".\" @Int )?"`
}

type astRollGroup struct {
	Exprs     []*astExpression `parser:"\"{\" @@ (\",\" @@)* \"}\""`
	Modifiers []*astModifier   `parser:"@@*"`
	Desc      *astDescription  `parser:"@@?"`
}

type astComparePoint struct {
	Op    string  `parser:"@(\">=\"|\"<=\"|\"<>\"|\"==\"|\"!=\"|\">\"|\"<\"|\"=\"|\"!\")"`
	Value float64 `parser:"@Float|@Int"`
}

// astModifier = Explode | ReRoll | Unique | Keep/Drop | CritSuccess/CritFail
//             | Sorting | Max/Min | bare ComparePoint (-> inferred Target)
type astModifier struct {
	Explode  *astExplodeMod  `parser:"  @@"`
	Reroll   *astRerollMod   `parser:"| @@"`
	Unique   *astUniqueMod   `parser:"| @@"`
	KeepDrop *astKeepDropMod `parser:"| @@"`
	Crit     *astCritMod     `parser:"| @@"`
	Sort     *astSortMod     `parser:"| @@"`
	MinMax   *astMinMaxMod   `parser:"| @@"`
	Target   *astTargetMod   `parser:"| @@"`
}

type astExplodeMod struct {
	Bang1 string           `parser:"@\"!\""`
	Bang2 bool             `parser:"@\"!\"?"`
	Pen   bool             `parser:"@\"p\"?"`
	CP    *astComparePoint `parser:"@@?"`
}

type astRerollMod struct {
	Kind string           `parser:"@(\"ro\"|\"r\")"`
	CP   *astComparePoint `parser:"@@?"`
}

type astUniqueMod struct {
	Kind string           `parser:"@(\"uo\"|\"u\")"`
	CP   *astComparePoint `parser:"@@?"`
}

type astKeepDropMod struct {
	Op  string `parser:"@(\"kh\"|\"kl\"|\"k\"|\"dh\"|\"dl\"|\"d\")"`
	Qty int    `parser:"@Int"`
}

type astCritMod struct {
	Kind string           `parser:"@(\"cs\"|\"cf\")"`
	CP   *astComparePoint `parser:"@@?"`
}

type astSortMod struct {
	Kind string `parser:"@(\"sa\"|\"sd\")"`
}

type astMinMaxMod struct {
	Kind  string  `parser:"@(\"min\"|\"max\")"`
	Bound float64 `parser:"@Float|@Int"`
}

type astTargetMod struct {
	Success *astComparePoint `parser:"@@"`
	Failure *astComparePoint `parser:"(\"f\" @@)?"`
}

type astDescription struct {
	Line    string `parser:"  @LineComment"`
	Bracket string `parser:"| @BracketDescription"`
	Multi   string `parser:"| @MultilineComment"`
}

var notationParser = participle.MustBuild(
	&astNotation{},
	participle.Lexer(notationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
