package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/rbochenek/liberland-vote-scope/cli/electioncmd"
)

// Version is the application version, set at build time via -ldflags.
var Version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "liberland-vote-scope\nVersion: %s\nGoVersion: %s\n",
		Version,
		runtime.Version(),
	)
}

// New creates the vote-scope instance of [cli.App] with all commands
// included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "liberland-vote-scope"
	ctl.Version = Version
	ctl.Usage = "Sequential Phragmén council election engine with round-by-round tracing"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, electioncmd.NewCommands()...)
	return ctl
}
