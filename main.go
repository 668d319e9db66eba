package main

import (
	"fmt"
	"os"

	"github.com/x2doc-labs/x2doc/internal/cli"
	"github.com/x2doc-labs/x2doc/internal/env"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		// A shell that exited non-zero already said everything it had to.
		if code, silent := env.ShellStatus(err); silent {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(env.ExitCode(err))
	}
}
