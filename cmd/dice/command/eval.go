package command

import (
	"fmt"

	dicemath "github.com/rollwright/dice/math"
	"github.com/urfave/cli"
)

// EvalCommand evaluates the first argument as a pure arithmetic expression
// (no dice notation) via the math package, and prints the result.
func EvalCommand(c *cli.Context) error {
	eval := c.Args().Get(0)
	result, err := dicemath.Evaluate(eval)
	if err != nil {
		return err
	}
	out, err := Output(c, map[string]interface{}{
		"expression": eval,
		"result":     result,
	})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
