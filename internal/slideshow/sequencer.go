// Package slideshow drives the public presentation: it computes the ordered
// active set of approved submissions, advances through them on a timer, and
// keeps the display fresh through a polling refresh loop.
package slideshow

import (
	"math/rand"
	"time"
	"unicode/utf8"

	"centerstage/internal/models"
)

// Config carries the presentation policy the sequencer consumes.
type Config struct {
	RandomizeOrder    bool
	AllowVideoFinish  bool
	TransitionSeconds int
	// Seed fixes the shuffle permutation for the run. Zero means derive one
	// from the clock at construction.
	Seed int64
}

// Sequencer is the per-presentation state machine. It is not safe for
// concurrent use; the Runner serializes access.
//
// The working list is replaced wholesale on every poll refresh. When
// randomize_order is set, a Fisher-Yates permutation seeded once at
// construction is re-applied after each replacement, so the same membership
// always yields the same order: the shuffle happens once per run, never per
// poll. Submissions with display_mode=once whose ids are already in the shown
// set are excluded from the active set; the shown set is never cleared within
// a run.
type Sequencer struct {
	cfg   Config
	seed  int64
	list  []models.Submission
	shown map[string]struct{}
	pos   int
}

// NewSequencer builds a sequencer over the initial approved list.
func NewSequencer(cfg Config, subs []models.Submission) *Sequencer {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Sequencer{
		cfg:   cfg,
		seed:  seed,
		shown: make(map[string]struct{}),
	}
	s.Replace(subs)
	return s
}

// Replace swaps the working list wholesale (no diff/merge). Ids in the shown
// set that no longer exist are implicitly dropped. The current position is
// clamped back into range so a shrinking list cannot point past the end.
func (s *Sequencer) Replace(subs []models.Submission) {
	s.list = make([]models.Submission, len(subs))
	copy(s.list, subs)
	if s.cfg.RandomizeOrder {
		r := rand.New(rand.NewSource(s.seed))
		r.Shuffle(len(s.list), func(i, j int) {
			s.list[i], s.list[j] = s.list[j], s.list[i]
		})
	}
	s.clamp()
}

// active returns the ordered active set: the working list minus shown
// once-submissions.
func (s *Sequencer) active() []*models.Submission {
	out := make([]*models.Submission, 0, len(s.list))
	for i := range s.list {
		sub := &s.list[i]
		if sub.DisplayMode == models.DisplayOnce {
			if _, ok := s.shown[sub.ID]; ok {
				continue
			}
		}
		out = append(out, sub)
	}
	return out
}

// ActiveIDs returns the ids of the active set in display order.
func (s *Sequencer) ActiveIDs() []string {
	act := s.active()
	ids := make([]string, len(act))
	for i, sub := range act {
		ids[i] = sub.ID
	}
	return ids
}

func (s *Sequencer) clamp() {
	n := len(s.active())
	if n == 0 {
		s.pos = 0
		return
	}
	if s.pos >= n {
		s.pos = 0
	}
}

// Current returns the slide being shown. ok is false when the active set is
// empty and the presentation is in the Holding state.
func (s *Sequencer) Current() (*models.Submission, bool) {
	s.clamp()
	act := s.active()
	if len(act) == 0 {
		return nil, false
	}
	return act[s.pos], true
}

// Position returns the current index and the active set size.
func (s *Sequencer) Position() (index, total int) {
	s.clamp()
	return s.pos, len(s.active())
}

// Advance records the outgoing slide (adding once-submissions to the shown
// set) and moves to the next slide. ok is false when the active set emptied
// and the presentation should hold. A single-slide active set advances back
// onto the same slide.
func (s *Sequencer) Advance() (*models.Submission, bool) {
	cur, ok := s.Current()
	if !ok {
		return nil, false
	}

	wasOnce := cur.DisplayMode == models.DisplayOnce
	if wasOnce {
		s.shown[cur.ID] = struct{}{}
	}

	act := s.active()
	if len(act) == 0 {
		s.pos = 0
		return nil, false
	}
	if wasOnce {
		// The outgoing slide left the active set, so its successor already
		// occupies the current position.
		s.pos = s.pos % len(act)
	} else {
		s.pos = (s.pos + 1) % len(act)
	}
	return act[s.pos], true
}

// BaseDuration returns the slide's timer duration before any video extension:
// the submission's custom timing when present, else the configured
// transition duration.
func (s *Sequencer) BaseDuration(sub *models.Submission) time.Duration {
	if sub.CustomTiming != nil && *sub.CustomTiming > 0 {
		return time.Duration(*sub.CustomTiming) * time.Second
	}
	return time.Duration(s.cfg.TransitionSeconds) * time.Second
}

// Duration resolves the slide's full display duration. videoSeconds is the
// discovered playback length (zero when unknown); it only wins when
// allow_video_finish is set, the slide carries a video, and it exceeds the
// base duration.
func (s *Sequencer) Duration(sub *models.Submission, videoSeconds float64) time.Duration {
	base := s.BaseDuration(sub)
	if s.cfg.AllowVideoFinish && sub.HasVideo() && videoSeconds > base.Seconds() {
		return time.Duration(videoSeconds * float64(time.Second))
	}
	return base
}

// FontScale returns the comment legibility scale factor: long comments render
// smaller so they fit the display. Thresholds count characters, not bytes, so
// non-ASCII comments bucket the same as ASCII ones.
func FontScale(comment string) float64 {
	switch n := utf8.RuneCountInString(comment); {
	case n > 250:
		return 0.5
	case n > 150:
		return 0.75
	default:
		return 1.0
	}
}
