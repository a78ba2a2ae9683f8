package slideshow

import (
	"context"
	"log/slog"
	"time"

	"centerstage/internal/models"
)

// DefaultPollInterval is how often a running presentation refreshes its
// approved-submission set.
const DefaultPollInterval = 30 * time.Second

// Fetcher loads the current approved submission set for a project.
type Fetcher func(ctx context.Context) ([]models.Submission, error)

// Poller keeps a long-running display fresh: every interval it fetches the
// approved set and hands it to apply wholesale. A fetch failure is logged and
// the previous in-memory list stays untouched.
type Poller struct {
	interval time.Duration
	fetch    Fetcher
	apply    func([]models.Submission)
	logger   *slog.Logger
}

// NewPoller builds a poller; interval <= 0 uses DefaultPollInterval.
func NewPoller(interval time.Duration, fetch Fetcher, apply func([]models.Submission), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, fetch: fetch, apply: apply, logger: logger}
}

// Poll runs a single refresh cycle. Exported so tests can drive the poller
// without real timers.
func (p *Poller) Poll(ctx context.Context) {
	subs, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn("presentation refresh failed, keeping previous list", slog.String("error", err.Error()))
		return
	}
	p.apply(subs)
}

// Run polls on the fixed interval until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}
