package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/x2doc-labs/x2doc/internal/convert"
	"github.com/x2doc-labs/x2doc/internal/project"
	"github.com/x2doc-labs/x2doc/internal/task"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [args...]",
	Short: "Run a document task",
	Long: `Execute one of the registered document tasks.

Pre-tasks declared by the task run first, depth-first, receiving the same
arguments. Each task runs at most once per invocation, so shared pre-tasks
are not repeated.

Use "x2doc tasks" to see what is available.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]

	proj, err := project.Load(".")
	if err != nil {
		return err
	}
	reg := convert.NewRegistry(".", proj, cmd.OutOrStdout())

	err = reg.Run(cmd.Context(), name, args[1:])
	var nf *task.NotFoundError
	if errors.As(err, &nf) {
		// The runner's historical report; the exit code still signals
		// the failure for scripted callers.
		fmt.Fprintf(os.Stderr, "Task '%s' not found in the collection.\n", nf.Name)
		return fmt.Errorf("unknown task %q", nf.Name)
	}
	return err
}
