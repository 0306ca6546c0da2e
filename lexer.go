package dice

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// notationLexer tokenizes dice notation per §4.5/§6. Order matters: longer
// operators must be tried before their prefixes (">=" before ">", "**"
// before "*"), and descriptions/whitespace are lexed so they can be
// filtered or captured rather than falling through as errors.
var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "MultilineComment", Pattern: `/\*[\s\S]*?\*/`},
	{Name: "BracketDescription", Pattern: `\[[^\]]*\]`},
	{Name: "LineComment", Pattern: `(//|#)[^\n]*`},
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	// DiceF must be tried before Ident: Ident is a maximal run of letters,
	// so "dF" directly followed by another letter-leading modifier (e.g.
	// "4dFcs>=1") would otherwise merge into a single "dFcs" token.
	{Name: "DiceF", Pattern: `dF`},
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
	{Name: "GEQ", Pattern: `>=`},
	{Name: "LEQ", Pattern: `<=`},
	{Name: "NEQ2", Pattern: `<>`},
	{Name: "EQ2", Pattern: `==`},
	{Name: "NEQ1", Pattern: `!=`},
	{Name: "Pow", Pattern: `\*\*`},
	{Name: "Punct", Pattern: `[-+*/^%(){},.!<>=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})
