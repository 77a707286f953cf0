package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/nightscout"
)

// ErrNoReading is returned by status when the site has no entries.
var ErrNoReading = errors.New("no glucose data available")

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Fetch and print the latest glucose reading",
		Long: `Fetch the latest reading once and print it, colored by range.

Exits non-zero when the site cannot be reached or has no data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := nightscout.NewClient(cfg, GetLogger())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			reading, err := client.FetchLatest(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch from %s: %w", client.BaseURL(), err)
			}
			if reading == nil {
				return ErrNoReading
			}

			printReading(cmd.OutOrStdout(), *reading)
			return nil
		},
	}
}

// printReading writes one styled line per field. Colors are only emitted
// when w is a terminal.
func printReading(w io.Writer, r glucose.Reading) {
	renderer := lipgloss.NewRenderer(w)
	rng := r.Range()

	label := renderer.NewStyle().Width(8).Foreground(lipgloss.Color("245"))
	value := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(rng.Hex()))

	direction := r.Direction
	if direction == "" {
		direction = "Unknown"
	}

	fmt.Fprintln(w, label.Render("Value")+value.Render(glucose.FormatValue(r.MmolL())+" mmol/L "+r.Arrow()))
	fmt.Fprintln(w, label.Render("Trend")+direction)
	fmt.Fprintln(w, label.Render("Range")+value.Render(rng.String()))
	fmt.Fprintln(w, label.Render("Time")+r.Time().Format("2006-01-02 15:04:05"))
}
