package commands

import (
	"github.com/spf13/cobra"

	"resultsdash/internal/cli"
	"resultsdash/internal/config"
	applog "resultsdash/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

// env is the configuration and logger shared by the subcommands.
type env struct {
	logLevel string
	cfg      *config.Config
	logger   *applog.Logger
}

// NewRootCmd builds the results-report command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:     "results-report",
		Short:   "Report on FCA Kenya project results from the command line",
		Version: Version,
		Long: `results-report resolves a filter selection against the configured results
source and prints the same view the dashboard shows. It can also copy the
configured source into the SQLite results table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()

			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = e.logLevel
			}
			// Logs go to stderr so stdout stays parseable.
			e.logger = cli.SetupLoggerTo(level, cmd.ErrOrStderr()).WithComponent(applog.ComponentCLI)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(newViewCmd(e), newSeedCmd(e))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
