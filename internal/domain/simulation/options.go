package simulation

import (
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/rating"
	"github.com/okian/universus/internal/domain/scheduler"
	"github.com/okian/universus/pkg/logger"
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithSource sets the master source. Each match draws from a child of it, so
// a seeded master replays the same sequence of matches.
func WithSource(src random.Source) Option {
	return func(s *Simulator) {
		if src != nil {
			s.src = random.NewLocked(src)
		}
	}
}

// WithLogger sets the simulator logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCommentary adds n narrative lines to every resolved sport. Zero
// disables commentary.
func WithCommentary(n int) Option {
	return func(s *Simulator) {
		if n >= 0 {
			s.commentaryLines = n
		}
	}
}

// WithRatingOptions forwards options to the rating engine.
func WithRatingOptions(opts ...rating.Option) Option {
	return func(s *Simulator) {
		s.ratingOpts = append(s.ratingOpts, opts...)
	}
}

// WithSchedulerOptions forwards options to the multisport scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(s *Simulator) {
		s.schedulerOpts = append(s.schedulerOpts, opts...)
	}
}

// WithoutProgression resolves matches without drifting anyone.
func WithoutProgression() Option {
	return func(s *Simulator) { s.noProgress = true }
}
