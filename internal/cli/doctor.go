package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/x2doc-labs/x2doc/internal/doctor"
	"github.com/x2doc-labs/x2doc/internal/project"
)

var (
	checkPython    bool
	checkReqs      bool
	checkEnvDir    bool
	checkManifest  bool
	checkDocuments bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkPython, "check-python", false, "Verify the Python interpreter and its version")
	doctorCmd.Flags().BoolVar(&checkReqs, "check-requirements", false, "Verify the requirements manifest")
	doctorCmd.Flags().BoolVar(&checkEnvDir, "check-env", false, "Verify the virtual environment directory")
	doctorCmd.Flags().BoolVar(&checkManifest, "check-manifest", false, "Validate x2doc.yaml against its schema")
	doctorCmd.Flags().BoolVar(&checkDocuments, "check-documents", false, "Parse every configured document")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project setup",
	Long:  `Run diagnostic checks on the Python toolchain, the environment, and the project's documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := project.Load(".")
		if err != nil {
			// An invalid manifest is exactly what doctor is for: fall
			// back to defaults and let the manifest check report it.
			var verr *project.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			proj = project.Default()
		}
		d := doctor.New(".", proj)
		d.Out = cmd.OutOrStdout()

		anyFlag := checkPython || checkReqs || checkEnvDir || checkManifest || checkDocuments

		// If no specific flag, run all checks.
		if !anyFlag {
			return d.RunAll(cmd.Context())
		}

		if checkPython {
			if err := d.CheckPython(cmd.Context()); err != nil {
				return err
			}
		}
		if checkReqs {
			d.CheckRequirements()
		}
		if checkEnvDir {
			d.CheckEnv()
		}
		if checkManifest {
			if err := d.CheckManifest(); err != nil {
				return err
			}
		}
		if checkDocuments {
			if err := d.CheckDocuments(); err != nil {
				return err
			}
		}
		return nil
	},
}
