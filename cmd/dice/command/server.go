package command

import (
	"strconv"
	"strings"

	"github.com/rollwright/dice/server"
	"github.com/urfave/cli"
)

// ServerCommand starts the HTTP roll-as-a-service server, parsing the
// "--http" flag (e.g. ":6436") down to a bare port for server.RunServer.
func ServerCommand(c *cli.Context) error {
	addr := c.String("http")
	port, err := strconv.Atoi(strings.TrimPrefix(addr, ":"))
	if err != nil {
		port = 8000
	}
	_, err = server.RunServer(port, false, false)
	return err
}
