// Package cli provides the command-line interface for nightscout-tray.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/logging"
	"github.com/glucotray/nightscout-tray/internal/pathutil"
	"github.com/glucotray/nightscout-tray/internal/version"
)

var (
	// Global flags
	cfgFile string
	urlFlag string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger
)

// NewRootCmd creates the root command. Without a subcommand it starts the tray.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nightscout-tray",
		Short: "Nightscout glucose badge for the system tray",
		Long: `Nightscout Tray ` + version.Version + ` - Built: ` + version.BuildTime + `
Polls a Nightscout site once a minute and shows the latest glucose value,
colored by range, as the tray and window icon.

Configuration is read from tray.conf (see 'config path'), then from
NIGHTSCOUT_* environment variables, then from --url.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logging.ModeCLI, cmd.ErrOrStderr())
			if verbose || debug {
				logging.SetGlobalLevel(-1) // Debug level (zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Nightscout site URL (overrides config and environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context,
// which stops the poller and quits the tray.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	return rootCmd.ExecuteContext(ctx)
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newIconCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// configPath resolves --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return pathutil.Expand(cfgFile)
	}
	return config.DefaultConfigPath()
}

// loadConfig merges file, environment and --url, then validates.
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if urlFlag != "" {
		cfg.URL = urlFlag
	}
	if cfg.Debug {
		logging.SetGlobalLevel(-1)
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingURL) {
			return nil, fmt.Errorf("%w: set url in %s, NIGHTSCOUT_URL or --url", err, path)
		}
		return nil, err
	}
	return cfg, nil
}
