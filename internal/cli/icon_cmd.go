package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/icon"
	"github.com/glucotray/nightscout-tray/internal/pathutil"
)

func newIconCmd() *cobra.Command {
	var (
		value     float64
		direction string
		output    string
		logo      bool
	)

	cmd := &cobra.Command{
		Use:   "icon",
		Short: "Render a glucose badge to a PNG file",
		Long: `Render the 32x32 badge the tray would show for a value and trend.

Examples:
  nightscout-tray icon --value 5.5 --direction Flat -o badge.png
  nightscout-tray icon --logo -o logo.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ic *icon.Icon
			if logo {
				ic = icon.Logo()
			} else {
				if !cmd.Flags().Changed("value") {
					return fmt.Errorf("--value is required unless --logo is set")
				}
				ic = icon.Render(value, glucose.Arrow(direction))
			}

			path, err := pathutil.Expand(output)
			if err != nil {
				return err
			}
			data, err := ic.PNG()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "Glucose value in mmol/L")
	cmd.Flags().StringVar(&direction, "direction", "Flat", "Nightscout trend direction (Flat, SingleUp, DoubleDown, ...)")
	cmd.Flags().StringVarP(&output, "output", "o", "glucose.png", "Output PNG path")
	cmd.Flags().BoolVar(&logo, "logo", false, "Render the default badge shown before the first reading")

	return cmd
}
