package cli

import (
	"fmt"

	"github.com/dmpack-labs/dmpack/internal/branding"
	"github.com/dmpack-labs/dmpack/internal/config"
	"github.com/dmpack-labs/dmpack/internal/logger"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` packages a trained model, its metadata, and its pre/post processors
into a self-describing deliverable directory with a metadata.json manifest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		name := logLevel
		if !cmd.Flags().Changed("log-level") {
			name = config.LogLevel()
		}

		level, ok := logger.ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown log level %q", name)
		}
		logger.SetLevel(level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn, error (default from config or "+branding.EnvVar(config.KeyLogLevel)+")")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
