// Package simulation is the entry point for single-sport and multisport
// contests. It validates requests against the roster, resolves them with a
// per-match random source and commits tier drift.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/universus/internal/domain/attributes"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/narrative"
	"github.com/okian/universus/internal/domain/progression"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/rating"
	"github.com/okian/universus/internal/domain/scheduler"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

// Match kinds used in metrics and logs.
const (
	KindSingle     = "single"
	KindMultisport = "multisport"
)

// Roster resolves participant names and accepts progression commits.
type Roster interface {
	progression.Roster
	Resolve(names []string) ([]model.Participant, []string)
}

// Simulator runs contests. It is safe for concurrent use.
type Simulator struct {
	catalog   *catalog.Catalog
	roster    Roster
	rating    *rating.Engine
	progress  *progression.Engine
	scheduler *scheduler.Scheduler
	log       logger.Logger

	src        random.Source
	narrateSrc random.Source

	commentaryLines int
	ratingOpts      []rating.Option
	schedulerOpts   []scheduler.Option
	noProgress      bool
}

// New returns a Simulator over c and r.
func New(c *catalog.Catalog, r Roster, opts ...Option) *Simulator {
	s := &Simulator{
		catalog: c,
		roster:  r,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		seed, err := random.NewSeed()
		if err != nil {
			seed = uint64(time.Now().UnixNano())
		}
		s.src = random.NewLocked(random.New(seed))
	}
	s.narrateSrc = random.NewLocked(random.Child(s.src))

	s.rating = rating.New(attributes.New(c), s.ratingOpts...)
	s.progress = progression.New(r, progression.WithLogger(s.log))

	var p scheduler.Progressor
	if !s.noProgress {
		p = s.progress
	}
	sopts := []scheduler.Option{scheduler.WithLogger(s.log)}
	if s.commentaryLines > 0 {
		sopts = append(sopts, scheduler.WithCommentator(s.commentate))
	}
	s.scheduler = scheduler.New(c, s.rating, p, append(sopts, s.schedulerOpts...)...)
	return s
}

// Catalog returns the sport catalog in use.
func (s *Simulator) Catalog() *catalog.Catalog { return s.catalog }

// Ratings returns p's noise-free solo rating in every catalog sport.
func (s *Simulator) Ratings(p model.Participant) map[string]float64 {
	sports := s.catalog.Sports()
	out := make(map[string]float64, len(sports))
	for _, sport := range sports {
		out[sport.Name] = s.rating.Solo(p, sport)
	}
	return out
}

// SimulateSingle resolves one sport between two sides and commits drift
// with the sport name as context. Duels take exactly one name per side;
// team sides hold at most the sport's team size.
func (s *Simulator) SimulateSingle(ctx context.Context, sportName string, side1, side2 []string) (model.MatchResult, error) {
	start := time.Now()

	sport, ok := s.catalog.Sport(sportName)
	if !ok {
		return model.MatchResult{}, s.reject(ctx, KindSingle, invalid("sport", ErrUnknownSport, sportName))
	}
	if err := checkLineup("side1", sport, side1); err != nil {
		return model.MatchResult{}, s.reject(ctx, KindSingle, err)
	}
	if err := checkLineup("side2", sport, side2); err != nil {
		return model.MatchResult{}, s.reject(ctx, KindSingle, err)
	}
	p1, p2, verr := s.resolve(side1, side2)
	if verr != nil {
		return model.MatchResult{}, s.reject(ctx, KindSingle, verr)
	}

	src := random.Child(s.src)
	res := s.rating.Match(sport, p1, p2, src)
	if s.commentaryLines > 0 {
		res.Commentary = s.commentate(sport, res.Side1, res.Side2)
		res.Techniques = narrative.Techniques(res.Decisive)
	}
	metrics.RecordSportResolved(sport.Name, string(sport.Type))

	if !s.noProgress {
		report, err := s.progress.Apply(ctx, progression.Request{
			Winners: res.WinnerNames(),
			Losers:  res.LoserNames(),
			Context: sport.Name,
		}, src)
		if err != nil {
			metrics.RecordMatch(KindSingle, "error", elapsedMs(start))
			return model.MatchResult{}, err
		}
		res.Progression = report
	}

	metrics.RecordMatch(KindSingle, outcome(res.Winner), elapsedMs(start))
	s.log.Debug(ctx, "single sport resolved",
		logger.String("sport", sport.Name),
		logger.Int("winner", int(res.Winner)),
		logger.Float64("rating1", res.Rating1),
		logger.Float64("rating2", res.Rating2))
	return res, nil
}

// SimulateMultisport plays a best-of-five contest between two rosters.
func (s *Simulator) SimulateMultisport(ctx context.Context, roster1, roster2 []string) (model.MultisportResult, error) {
	start := time.Now()

	if err := checkRoster("roster1", roster1); err != nil {
		return model.MultisportResult{}, s.reject(ctx, KindMultisport, err)
	}
	if err := checkRoster("roster2", roster2); err != nil {
		return model.MultisportResult{}, s.reject(ctx, KindMultisport, err)
	}
	p1, p2, verr := s.resolve(roster1, roster2)
	if verr != nil {
		return model.MultisportResult{}, s.reject(ctx, KindMultisport, verr)
	}

	res, err := s.scheduler.Run(ctx, p1, p2, random.Child(s.src))
	if err != nil {
		metrics.RecordMatch(KindMultisport, "error", elapsedMs(start))
		return model.MultisportResult{}, err
	}
	for i, m := range res.Matches {
		if sport, ok := s.catalog.Sport(m.Sport); ok {
			metrics.RecordSportResolved(sport.Name, string(sport.Type))
		}
		if s.commentaryLines > 0 {
			res.Matches[i].Techniques = narrative.Techniques(m.Decisive)
		}
	}
	metrics.RecordMatch(KindMultisport, outcome(res.Winner), elapsedMs(start))
	return res, nil
}

func (s *Simulator) resolve(names1, names2 []string) ([]model.Participant, []model.Participant, *ValidationError) {
	p1, missing1 := s.roster.Resolve(names1)
	p2, missing2 := s.roster.Resolve(names2)
	switch {
	case len(missing1) > 0:
		return nil, nil, invalid("side1", ErrUnknownParticipant, missing1...)
	case len(missing2) > 0:
		return nil, nil, invalid("side2", ErrUnknownParticipant, missing2...)
	}
	return p1, p2, nil
}

func (s *Simulator) reject(ctx context.Context, kind string, err *ValidationError) error {
	metrics.RecordValidationError(reason(err.Cause))
	s.log.Debug(ctx, "request rejected", logger.String("kind", kind), logger.Error(err))
	return err
}

// commentate draws from its own source so commentary never shifts the
// match's random sequence.
func (s *Simulator) commentate(sport model.Sport, side1, side2 []string) []string {
	return narrative.Lines(sport, side1, side2, s.commentaryLines, s.narrateSrc)
}

func checkLineup(field string, sport model.Sport, names []string) *ValidationError {
	if err := checkRoster(field, names); err != nil {
		return err
	}
	if !sport.IsTeam() && len(names) != 1 {
		return invalid(field, fmt.Errorf("%w: %s takes one participant per side", ErrLineupSize, sport.Name))
	}
	if sport.IsTeam() && len(names) > sport.LineupSize() {
		return invalid(field, fmt.Errorf("%w: %s takes at most %d per side", ErrLineupSize, sport.Name, sport.LineupSize()))
	}
	return nil
}

func checkRoster(field string, names []string) *ValidationError {
	if len(names) == 0 {
		return invalid(field, ErrEmptySide)
	}
	seen := make(map[string]bool, len(names))
	var dups []string
	for _, n := range names {
		if seen[n] {
			dups = append(dups, n)
		}
		seen[n] = true
	}
	if len(dups) > 0 {
		return invalid(field, ErrDuplicateParticipant, dups...)
	}
	return nil
}

func reason(cause error) string {
	switch {
	case errors.Is(cause, ErrUnknownParticipant):
		return "unknown_participant"
	case errors.Is(cause, ErrUnknownSport):
		return "unknown_sport"
	case errors.Is(cause, ErrEmptySide):
		return "empty_side"
	case errors.Is(cause, ErrDuplicateParticipant):
		return "duplicate_participant"
	case errors.Is(cause, ErrLineupSize):
		return "lineup_size"
	default:
		return "other"
	}
}

func outcome(w model.Side) string {
	switch w {
	case model.Side1:
		return "side1"
	case model.Side2:
		return "side2"
	default:
		return "tie"
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
