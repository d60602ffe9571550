package main

import (
	"context"
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v3"

	"github.com/netauto/confsort/internal/commands"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("confsort: ")

	cmd := &cli.Command{
		Name:  "confsort",
		Usage: "Normalize indentation-structured configuration files for stable diffs",
		Commands: []*cli.Command{
			commands.SortCommand(),
			commands.RenderCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// cli.Exit errors print themselves; anything else is an internal
		// failure worth reporting before bailing out.
		if _, ok := err.(cli.ExitCoder); !ok {
			log.Errorln(err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an action error back to the process exit status. Exit codes:
// 0 nothing to do or done, 1 check mode found pending changes, 2 errors.
func exitCode(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}
	return 2
}
