package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/x2doc-labs/x2doc/internal/convert"
	"github.com/x2doc-labs/x2doc/internal/project"
)

var tasksJSON bool

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the available document tasks",
	Long:  `List every task "x2doc run" accepts, with its pre-tasks and summary.`,
	RunE:  runTasks,
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(tasksCmd)
}

// taskEntry represents one registered task for display.
type taskEntry struct {
	Name    string   `json:"name"`
	Pre     []string `json:"pre,omitempty"`
	Summary string   `json:"summary"`
}

func runTasks(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(".")
	if err != nil {
		return err
	}
	reg := convert.NewRegistry(".", proj, cmd.OutOrStdout())

	var entries []taskEntry
	for _, t := range reg.Tasks() {
		entries = append(entries, taskEntry{Name: t.Name, Pre: t.Pre, Summary: t.Summary})
	}

	if tasksJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TASK\tPRE\tSUMMARY")
	for _, e := range entries {
		pre := strings.Join(e.Pre, ", ")
		if pre == "" {
			pre = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, pre, e.Summary)
	}
	return w.Flush()
}
