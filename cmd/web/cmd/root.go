package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stiventours.com/pasadias/internal/config"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
)

// newRootCommand builds the command tree. Tests build a fresh tree per run.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pasadias",
		Short: "Stiventours pasadías catalog site",
		Long: `Serves the Stiventours pasadías catalog: a page that loads the tour
catalog document, validates each entry, renders the valid ones as cards and
opens a detail dialog with a WhatsApp booking link.`,
		SilenceUsage: true,
		// Run the serve command by default if no subcommand is specified
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file path (optional, env vars override it)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	// Override logging from flags if provided
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
