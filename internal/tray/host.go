// Package tray hosts the glucose badge: it owns the latest reading, drives
// the poll loop and pushes every update to the desktop UI.
package tray

import (
	"context"
	"sync"

	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/icon"
	"github.com/glucotray/nightscout-tray/internal/logging"
	"github.com/glucotray/nightscout-tray/internal/nightscout"
)

// NoDataMessage is shown by the details dialog before the first reading.
const NoDataMessage = "No glucose data available."

// State is the poll state of the host.
type State int

const (
	Idle State = iota
	Fetching
)

func (s State) String() string {
	if s == Fetching {
		return "fetching"
	}
	return "idle"
}

// Display receives successful updates. Implementations must be safe to
// call from the poller goroutine.
type Display interface {
	ShowReading(r glucose.Reading, ic *icon.Icon)
}

// Observer is notified of every new reading (desktop alerts).
type Observer interface {
	Observe(r glucose.Reading) bool
}

// Host keeps the single most recent reading and its badge.
type Host struct {
	fetcher  nightscout.Fetcher
	observer Observer
	logger   *logging.Logger

	mu      sync.RWMutex
	display Display
	state   State
	last    *glucose.Reading
	icon    *icon.Icon
}

// NewHost creates a host that fetches through f. observer may be nil.
func NewHost(f nightscout.Fetcher, observer Observer, logger *logging.Logger) *Host {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Host{
		fetcher:  f,
		observer: observer,
		logger:   logger,
		icon:     icon.Logo(),
	}
}

// SetDisplay attaches the UI that receives updates.
func (h *Host) SetDisplay(d Display) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.display = d
}

// State reports whether a fetch is in flight.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Last returns a copy of the latest reading.
func (h *Host) Last() (glucose.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return glucose.Reading{}, false
	}
	return *h.last, true
}

// Icon returns the current badge; the logo until the first reading.
func (h *Host) Icon() *icon.Icon {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.icon
}

// DetailText is the body of the details dialog.
func (h *Host) DetailText() string {
	r, ok := h.Last()
	if !ok {
		return NoDataMessage
	}
	return r.Details()
}

// Refresh runs one fetch cycle and reports whether the display changed.
// Failures and empty responses leave the previous reading and icon in
// place; the fetcher logs errors at debug level.
func (h *Host) Refresh(ctx context.Context) bool {
	h.setState(Fetching)
	defer h.setState(Idle)

	reading := h.fetcher.Latest(ctx)
	if reading == nil {
		return false
	}

	r := *reading
	badge := icon.Render(r.MmolL(), r.Arrow())

	h.mu.Lock()
	h.last = &r
	h.icon = badge
	display := h.display
	h.mu.Unlock()

	h.logger.Debug().
		Int("sgv", r.SGV).
		Str("direction", r.Direction).
		Str("range", r.Range().String()).
		Msg("Glucose reading updated")

	if h.observer != nil {
		h.observer.Observe(r)
	}
	if display != nil {
		display.ShowReading(r, badge)
	}
	return true
}

func (h *Host) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}
