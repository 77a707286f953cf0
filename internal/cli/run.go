package cli

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/instance"
	"github.com/glucotray/nightscout-tray/internal/logging"
	"github.com/glucotray/nightscout-tray/internal/nightscout"
	"github.com/glucotray/nightscout-tray/internal/notify"
	"github.com/glucotray/nightscout-tray/internal/tray"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the tray (default when no command is given)",
		Long: `Start the tray application.

Only one tray runs per user session. Logs are appended to tray.log in
the log directory, which "View Logs" in the tray menu opens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context())
		},
	}
}

func runTray(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logDir := config.LogDirectory()
	trayLogger, err := logging.NewTrayLogger(logDir)
	if err != nil {
		GetLogger().Warn().Err(err).Msg("Falling back to console logging")
		trayLogger = GetLogger()
	}
	defer trayLogger.Close()

	lock, err := instance.Acquire(instance.Name)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		trayLogger.Info().Msg("Another tray instance is already running, exiting")
		return err
	}
	if err != nil {
		trayLogger.Warn().Err(err).Msg("Single-instance check failed, continuing")
	}
	defer lock.Release()

	trayLogger.Info().Interface("config", cfg.Redacted()).Msg("Starting Nightscout tray")

	client, err := nightscout.NewClient(cfg, trayLogger.Named("nightscout"))
	if err != nil {
		return fmt.Errorf("failed to create Nightscout client: %w", err)
	}

	notifier := notify.NewNotifier(&notify.Config{Enabled: cfg.Alerts.Enabled, Beep: true}, trayLogger.Named("notify"))
	host := tray.NewHost(client, notifier, trayLogger.Named("host"))
	poller := tray.NewPoller(host, cfg.PollInterval, trayLogger.Named("poller"))

	fyneApp := app.NewWithID(constants.AppID)
	ui := tray.NewUI(fyneApp, host, tray.UIOptions{
		BaseURL: client.BaseURL(),
		LogDir:  logDir,
		Refresh: poller.RequestRefresh,
		Alerts:  notifier,
	}, trayLogger.Named("ui"))

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	fyneApp.Lifecycle().SetOnStopped(cancel)

	go poller.Run(pollCtx)
	go func() {
		<-pollCtx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	ui.ShowAndRun()
	return nil
}
