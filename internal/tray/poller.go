package tray

import (
	"context"
	"time"

	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/logging"
)

// Poller refreshes the host on a fixed cadence. Fetches never overlap: the
// loop is sequential, ticks missed while a fetch is running are dropped by
// the ticker, and manual requests queue at most one extra refresh.
type Poller struct {
	host     *Host
	interval time.Duration
	logger   *logging.Logger
	requests chan struct{}
}

// NewPoller creates a poller for host. A non-positive interval uses the
// default of one minute.
func NewPoller(host *Host, interval time.Duration, logger *logging.Logger) *Poller {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Poller{
		host:     host,
		interval: interval,
		logger:   logger,
		requests: make(chan struct{}, 1),
	}
}

// Interval returns the tick period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// RequestRefresh asks for an immediate refresh. It never blocks; a request
// made while one is already pending is merged into it.
func (p *Poller) RequestRefresh() {
	select {
	case p.requests <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then on every tick and manual request,
// until ctx is cancelled. Cancelling ctx also aborts an in-flight request.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("interval", p.interval).Msg("Glucose poller started")
	defer p.logger.Info().Msg("Glucose poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.host.Refresh(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.requests:
		}
	}
}
