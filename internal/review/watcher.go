package review

import (
	"context"
	"log/slog"
	"time"

	"centerstage/internal/models"
)

// DefaultWatchInterval is how often a review stream refreshes its counts.
const DefaultWatchInterval = 12 * time.Second

// CountsFetcher loads the current per-status counts for a project.
type CountsFetcher func(ctx context.Context) (models.StatusCounts, error)

// Watcher polls the status counts and notifies a review stream. Every cycle
// it emits the counts; when pending grew since the last successful fetch it
// additionally reports the positive delta. A fetch failure is logged and the
// last known counts stand.
type Watcher struct {
	interval     time.Duration
	fetch        CountsFetcher
	onCounts     func(models.StatusCounts)
	onNewPending func(delta int64)
	logger       *slog.Logger

	last   models.StatusCounts
	primed bool
}

// NewWatcher builds a watcher; interval <= 0 uses DefaultWatchInterval.
// onNewPending may be nil when the caller only wants count frames.
func NewWatcher(interval time.Duration, fetch CountsFetcher, onCounts func(models.StatusCounts), onNewPending func(delta int64), logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		interval:     interval,
		fetch:        fetch,
		onCounts:     onCounts,
		onNewPending: onNewPending,
		logger:       logger,
	}
}

// Poll runs a single refresh cycle. Exported so tests can drive the watcher
// without real timers.
func (w *Watcher) Poll(ctx context.Context) {
	counts, err := w.fetch(ctx)
	if err != nil {
		w.logger.Warn("review counts refresh failed, keeping previous counts", slog.String("error", err.Error()))
		return
	}

	if w.primed && w.onNewPending != nil {
		if delta := counts[models.StatusPending] - w.last[models.StatusPending]; delta > 0 {
			w.onNewPending(delta)
		}
	}
	w.last = counts
	w.primed = true

	if w.onCounts != nil {
		w.onCounts(counts)
	}
}

// Run polls immediately, then on the fixed interval until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	w.Poll(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}
