package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/x2doc-labs/x2doc/internal/branding"
	"github.com/x2doc-labs/x2doc/internal/config"
	"github.com/x2doc-labs/x2doc/internal/env"
	"github.com/x2doc-labs/x2doc/internal/logger"
	"github.com/x2doc-labs/x2doc/internal/project"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	resetEnv bool
	verbose  bool
)

func init() {
	rootCmd.Flags().BoolVarP(&resetEnv, "reset", "r", false, "Delete the environment directory before creating a fresh one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [--reset]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` manages the project's Python virtual environment and runs the
x2doc document conversion tasks inside it.

Run with no arguments to create (or reuse) the environment, upgrade pip,
install the project requirements, and open a shell with the environment
active. Pass --reset to start from a clean environment first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Stray positionals and unknown flags count as "no reset requested"
	// rather than usage errors.
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		initLogging()
	},
	RunE: runBootstrap,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

func initLogging() {
	cfg := logger.DefaultConfig()
	if s := config.Get(config.KeyLogLevel); s != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(s)); err == nil {
			cfg.Level = lvl
		}
	}
	if verbose {
		cfg.Level = slog.LevelDebug
	}
	logger.Init(cfg)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(".")
	if err != nil {
		return err
	}
	return newBootstrapper(proj).Run(cmd.Context(), resetRequested(resetEnv, args))
}

// resetRequested decides whether the run starts by deleting the
// environment. Before flag parsing existed the reset request was a bare
// first argument, so "x2doc -- --reset" still counts; anything else in
// the first position means no reset.
func resetRequested(flag bool, args []string) bool {
	if flag {
		return true
	}
	return len(args) > 0 && (args[0] == "--reset" || args[0] == "-r")
}

// newBootstrapper builds the bootstrapper from the project manifest, with
// user config filling the fields the manifest left at their defaults.
func newBootstrapper(proj *project.Project) *env.Bootstrapper {
	b := env.New()
	b.Dir = proj.Env.Dir
	b.Python = proj.Env.Python
	b.Requirements = proj.Env.Requirements
	b.Shell = proj.Env.Shell

	if v := config.Get(config.KeyEnvDir); v != "" && b.Dir == env.DefaultDir {
		b.Dir = v
	}
	if v := config.Get(config.KeyEnvPython); v != "" && b.Python == env.DefaultPython {
		b.Python = v
	}
	if b.Shell == "" {
		b.Shell = config.Get(config.KeyEnvShell)
	}
	return b
}
