package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rollwright/dice"
	"github.com/urfave/cli"
)

const replPrompt = ">>> "

// REPLCommand reads dice notation lines from stdin, rolling and printing
// each until "quit" or EOF.
func REPLCommand(c *cli.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	in, _ := os.Stdin.Stat()
	interactive := (in.Mode() & os.ModeCharDevice) != 0

	for {
		if interactive {
			fmt.Fprint(os.Stderr, replPrompt)
		}
		if !scanner.Scan() {
			return nil
		}

		line := scanner.Text()
		if line == "quit" {
			return nil
		}

		ctx, cancel := context.WithTimeout(dice.WithRollBudget(context.Background()), time.Second*5)
		dr, err := dice.NewDiceRoll(line)
		if err == nil {
			err = dr.Roll(ctx, nil)
		}
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		out, err := Output(c, dr)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
}
