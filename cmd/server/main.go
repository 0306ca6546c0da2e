/*
Command server runs the dice roll-as-a-service HTTP server standalone,
outside of the "dice server" CLI subcommand.
*/
package main

import (
	"os"

	"github.com/rollwright/dice/server"
)

func main() {
	exit, err := server.Run()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(exit)
}
