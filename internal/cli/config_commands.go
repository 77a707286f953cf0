package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glucotray/nightscout-tray/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tray configuration",
		Long: `Configuration management commands for nightscout-tray.

Commands:
  init  - Write a configuration file
  show  - Display the effective configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		Long: `Write tray.conf with default settings. The Nightscout URL is taken
from --url when given.

Use --force to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			out := cmd.OutOrStdout()
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			cfg := config.NewConfig()
			cfg.URL = urlFlag
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(out, "Configuration written to: %s\n", path)
			if cfg.URL == "" {
				fmt.Fprintln(out, "Set url in the [nightscout] section before starting the tray.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long:  `Display the configuration after merging the file, NIGHTSCOUT_* variables and flags. The proxy password is masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			if urlFlag != "" {
				loaded.URL = urlFlag
			}
			cfg := loaded.Redacted()

			url := cfg.URL
			if url == "" {
				url = "(not set)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:    %s\n", path)
			fmt.Fprintf(out, "URL:            %s\n", url)
			fmt.Fprintf(out, "Poll interval:  %s\n", cfg.PollInterval)
			fmt.Fprintf(out, "Timeout:        %s\n", cfg.Timeout)
			fmt.Fprintf(out, "Retry max:      %d\n", cfg.RetryMax)
			fmt.Fprintf(out, "Proxy mode:     %s\n", cfg.Proxy.Mode)
			if cfg.Proxy.Host != "" {
				fmt.Fprintf(out, "Proxy:          %s:%d\n", cfg.Proxy.Host, cfg.Proxy.Port)
			}
			if cfg.Proxy.User != "" {
				fmt.Fprintf(out, "Proxy user:     %s\n", cfg.Proxy.User)
				fmt.Fprintf(out, "Proxy password: %s\n", cfg.Proxy.Password)
			}
			if cfg.Proxy.NoProxy != "" {
				fmt.Fprintf(out, "No proxy:       %s\n", cfg.Proxy.NoProxy)
			}
			fmt.Fprintf(out, "Alerts:         %t\n", cfg.Alerts.Enabled)

			if err := loaded.Validate(); err != nil {
				fmt.Fprintf(out, "\nWarning: %v\n", err)
			}
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
