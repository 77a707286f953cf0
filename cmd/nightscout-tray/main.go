// Nightscout Tray - shows the latest Nightscout glucose reading as a
// colored badge in the system tray and window icon.
//
// Build for Windows without a console window:
//
//	GOOS=windows go build -ldflags "-H=windowsgui -X github.com/glucotray/nightscout-tray/internal/version.Version=v1.2.0" ./cmd/nightscout-tray
//
// Run "nightscout-tray --help" for the command-line tools.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/glucotray/nightscout-tray/internal/cli"
	"github.com/glucotray/nightscout-tray/internal/instance"
)

func main() {
	if err := cli.Execute(); err != nil {
		// A second tray is not an error worth a message box.
		if errors.Is(err, instance.ErrAlreadyRunning) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
