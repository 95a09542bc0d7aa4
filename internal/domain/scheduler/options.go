package scheduler

import (
	"context"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/pkg/logger"
)

// Contest shape defaults.
const (
	DefaultSportsPerMatch = 5
	DefaultWinsNeeded     = 3
	DefaultUsageCap       = 2
	MultisportContext     = "Multisport"
)

// EventKind tags observer events.
type EventKind string

// Observer event kinds.
const (
	SportStarted   EventKind = "sport_started"
	SportResolved  EventKind = "sport_resolved"
	MatchCompleted EventKind = "match_completed"
)

// Event is delivered to an Observer as the contest advances.
type Event struct {
	Kind    EventKind
	Index   int
	Sport   model.Sport
	Lineup1 []string
	Lineup2 []string
	Result  *model.MatchResult
	Score1  int
	Score2  int
}

// Observer receives contest events. It must not block.
type Observer func(ctx context.Context, e Event)

// Commentator produces cosmetic lines for one resolved sport.
type Commentator func(sport model.Sport, side1, side2 []string) []string

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// WithCommentator registers a commentary hook.
func WithCommentator(c Commentator) Option {
	return func(s *Scheduler) { s.commentator = c }
}

// WithLogger sets the scheduler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUsageCap sets how many sports one participant may play per contest.
func WithUsageCap(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.usageCap = n
		}
	}
}
