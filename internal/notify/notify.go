// Package notify raises desktop notifications when the glucose reading
// crosses into an urgent range. It uses github.com/gen2brain/beeep for
// cross-platform notification support.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/logging"
)

// Title is used for every notification the tray raises.
const Title = "Nightscout Glucose"

// sendFunc delivers one notification.
type sendFunc func(title, message string) error

// Notifier sends an alert each time readings enter very-low or very-high.
// Staying in the same urgent range does not repeat the alert.
type Notifier struct {
	logger  *logging.Logger
	send    sendFunc
	mu      sync.Mutex
	enabled bool
	last    glucose.Range
	seen    bool
}

// Config holds notification configuration.
type Config struct {
	// Enabled determines if notifications are sent.
	Enabled bool
	// Beep plays the system beep along with the alert.
	Beep bool
}

// DefaultConfig returns the default notification configuration. Alerts are
// opt-in.
func DefaultConfig() *Config {
	return &Config{Enabled: false, Beep: true}
}

// NewNotifier creates a notifier with the given configuration.
func NewNotifier(cfg *Config, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	n := &Notifier{
		logger:  logger,
		enabled: cfg.Enabled,
	}
	n.send = beeepAlert(cfg.Beep)
	return n
}

func beeepAlert(withBeep bool) sendFunc {
	return func(title, message string) error {
		// beeep.Alert shows a more prominent notification on some platforms
		// and plays a sound; Notify is the silent fallback.
		if withBeep {
			if err := beeep.Alert(title, message, ""); err == nil {
				return nil
			}
		}
		return beeep.Notify(title, message, "")
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Observe records a new reading and alerts if its range became urgent.
// It reports whether a notification was sent.
func (n *Notifier) Observe(r glucose.Reading) bool {
	rng := r.Range()

	n.mu.Lock()
	changed := !n.seen || rng != n.last
	n.last = rng
	n.seen = true
	enabled := n.enabled
	n.mu.Unlock()

	if !enabled || !changed || !rng.Urgent() {
		return false
	}

	message := alertMessage(r)
	if err := n.send(Title, message); err != nil {
		n.logger.Warn().Err(err).Str("range", rng.String()).Msg("Failed to send glucose alert")
		return false
	}
	n.logger.Info().Str("range", rng.String()).Msg("Glucose alert sent")
	return true
}

func alertMessage(r glucose.Reading) string {
	label := "Very high"
	if r.Range() == glucose.VeryLow {
		label = "Very low"
	}
	return fmt.Sprintf("%s glucose: %s mmol/L %s at %s",
		label, glucose.FormatValue(r.MmolL()), r.Arrow(), r.Time().Format("15:04"))
}
