package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/x2doc-labs/x2doc/internal/scaffold"
)

var (
	initName      string
	initMinPython string
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (defaults to the directory name)")
	initCmd.Flags().StringVar(&initMinPython, "min-python", "", "Minimum Python version enforced by doctor (e.g. 3.10)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter project in the current directory",
	Long: `Write a starter x2doc.yaml, a requirements file, and a sample document
into the current directory.

Files that already exist are left untouched; an existing x2doc.yaml aborts
the whole initialization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		name := initName
		if name == "" {
			name = filepath.Base(cwd)
		}
		data := scaffold.NewData(name)
		data.MinPython = initMinPython

		result, err := scaffold.Generate(cwd, data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initialized project %s in %s\n", name, cwd)
		for _, f := range result.Files {
			fmt.Fprintf(out, "  created %s\n", f)
		}
		for _, f := range result.Skipped {
			fmt.Fprintf(out, "  kept existing %s\n", f)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		fmt.Fprintf(out, "\nRun '%s' to create the environment, or '%s tasks' to see the document tasks.\n",
			rootCmd.Name(), rootCmd.Name())
		return nil
	},
}
