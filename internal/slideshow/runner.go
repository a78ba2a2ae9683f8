package slideshow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"centerstage/internal/models"
)

// Frame types pushed to a presentation display.
const (
	FrameSlide   = "slide"
	FrameHolding = "holding"
)

// Frame is one display update: either the next slide with its resolved
// duration, or the holding/placeholder state when no slides are active.
type Frame struct {
	Type            string             `json:"type"`
	Submission      *models.Submission `json:"submission,omitempty"`
	DurationSeconds float64            `json:"duration_seconds,omitempty"`
	FontScale       float64            `json:"font_scale,omitempty"`
	Index           int                `json:"index"`
	Total           int                `json:"total"`
}

// Runner owns a Sequencer and advances it on real timers, emitting a Frame to
// the sink on every slide change. All state is guarded by one mutex; timer
// callbacks and external calls (Replace, NoteVideoDuration) serialize on it.
type Runner struct {
	mu     sync.Mutex
	seq    *Sequencer
	send   func(Frame)
	logger *slog.Logger

	timer      *time.Timer
	slideID    string
	slideStart time.Time
	armed      time.Duration
	holding    bool
	stopped    bool
}

// NewRunner wraps seq. Every slide change calls send; send must not block for
// long (the websocket handler's write is bounded by a write deadline).
func NewRunner(seq *Sequencer, send func(Frame), logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{seq: seq, send: send, logger: logger}
}

// Start emits the first frame and arms the advance timer. The runner stops
// when ctx is canceled; teardown clears the outstanding timer so a long-lived
// display leaks no background work.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	r.emitCurrentLocked()
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
}

// Stop cancels the advance timer. Safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Replace swaps the working submission list (poll refresh). If the
// presentation was holding and slides became active, it resumes immediately.
func (r *Runner) Replace(subs []models.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	wasHolding := r.slideID == ""
	r.seq.Replace(subs)

	cur, ok := r.seq.Current()
	switch {
	case !ok:
		// Active set emptied out from under the display.
		r.holdLocked()
	case wasHolding || cur.ID != r.slideID:
		// Resumed from holding, or the current slide no longer exists and the
		// clamped position points at a different one. Re-arm for the new slide.
		r.emitCurrentLocked()
	}
	// Same slide still showing: leave the armed timer alone.
}

// NoteVideoDuration reports a discovered video playback length for the
// current slide. The base duration is authoritative at the moment the timer
// is armed; the timer is re-armed only when the video runs longer and the
// base timer has not yet fired.
func (r *Runner) NoteVideoDuration(submissionID string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || r.timer == nil || submissionID != r.slideID {
		return
	}

	cur, ok := r.seq.Current()
	if !ok || cur.ID != submissionID {
		return
	}

	full := r.seq.Duration(cur, seconds)
	if full <= r.armed {
		return
	}
	remaining := full - time.Since(r.slideStart)
	if remaining <= 0 {
		return
	}
	r.timer.Stop()
	r.armed = full
	r.timer = time.AfterFunc(remaining, r.advance)
	r.logger.Debug("slide timer extended for video",
		slog.String("submission_id", submissionID),
		slog.Float64("video_seconds", seconds))
}

func (r *Runner) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if _, ok := r.seq.Advance(); !ok {
		r.holdLocked()
		return
	}
	r.emitCurrentLocked()
}

// emitCurrentLocked sends a frame for the current slide and arms its timer.
// Caller holds r.mu.
func (r *Runner) emitCurrentLocked() {
	cur, ok := r.seq.Current()
	if !ok {
		r.holdLocked()
		return
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	dur := r.seq.BaseDuration(cur)
	r.holding = false
	r.slideID = cur.ID
	r.slideStart = time.Now()
	r.armed = dur
	r.timer = time.AfterFunc(dur, r.advance)

	idx, total := r.seq.Position()
	r.send(Frame{
		Type:            FrameSlide,
		Submission:      cur,
		DurationSeconds: dur.Seconds(),
		FontScale:       FontScale(cur.Comment),
		Index:           idx,
		Total:           total,
	})
}

// holdLocked enters the Holding state. The frame is sent once per transition;
// repeated empty poll refreshes while already holding stay silent. Caller
// holds r.mu.
func (r *Runner) holdLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.slideID = ""
	if r.holding {
		return
	}
	r.holding = true
	r.send(Frame{Type: FrameHolding})
}
