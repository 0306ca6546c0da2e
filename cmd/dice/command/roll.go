package command

import (
	"context"
	"fmt"

	"github.com/rollwright/dice"
	"github.com/urfave/cli"
)

// RollCommand parses the first argument as dice notation, rolls it, and
// prints the result using the requested output format.
func RollCommand(c *cli.Context) error {
	ctx := dice.WithRollBudget(context.Background())

	notation := c.Args().Get(0)
	dr, err := dice.NewDiceRoll(notation)
	if err != nil {
		return err
	}
	if err := dr.Roll(ctx, nil); err != nil {
		return err
	}
	out, err := Output(c, dr)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
