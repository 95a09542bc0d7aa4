// Package scheduler runs best-of-five multisport contests between two
// rosters.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/progression"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/rating"
	"github.com/okian/universus/pkg/logger"
)

// Progressor applies post-match drift.
type Progressor interface {
	Apply(ctx context.Context, req progression.Request, src random.Source) (*model.ProgressionReport, error)
}

// Scheduler orchestrates multisport contests. It is stateless between runs
// and safe for concurrent use.
type Scheduler struct {
	catalog     *catalog.Catalog
	rating      *rating.Engine
	progress    Progressor
	observer    Observer
	commentator Commentator
	log         logger.Logger

	sportsPerMatch int
	winsNeeded     int
	usageCap       int
}

// New returns a Scheduler. A nil progressor disables drift.
func New(c *catalog.Catalog, r *rating.Engine, p Progressor, opts ...Option) *Scheduler {
	s := &Scheduler{
		catalog:        c,
		rating:         r,
		progress:       p,
		log:            logger.NewNop(),
		sportsPerMatch: DefaultSportsPerMatch,
		winsNeeded:     DefaultWinsNeeded,
		usageCap:       DefaultUsageCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays up to five sports, stopping once a side reaches three wins,
// then applies drift on a decisive result. ctx is checked between sports
// and before drift; a cancelled run commits nothing.
func (s *Scheduler) Run(ctx context.Context, roster1, roster2 []model.Participant, src random.Source) (model.MultisportResult, error) {
	if len(roster1) == 0 || len(roster2) == 0 {
		return model.MultisportResult{}, ErrEmptyRoster
	}

	sports := s.pickSports(src)
	usage := make(map[string]int, len(roster1)+len(roster2))
	var res model.MultisportResult
	for _, sp := range sports {
		res.Sports = append(res.Sports, sp.Name)
	}

	for i, sport := range sports {
		if err := ctx.Err(); err != nil {
			return model.MultisportResult{}, fmt.Errorf("multisport aborted before %s: %w", sport.Name, err)
		}

		lineup1, _ := s.Lineup(roster1, usage, sport)
		lineup2, _ := s.Lineup(roster2, usage, sport)
		for _, p := range lineup1 {
			usage[p.Name]++
		}
		for _, p := range lineup2 {
			usage[p.Name]++
		}

		if !sport.IsTeam() {
			lineup1 = duelist(lineup1, roster1, src)
			lineup2 = duelist(lineup2, roster2, src)
		}
		s.notify(ctx, Event{Kind: SportStarted, Index: i, Sport: sport, Lineup1: names(lineup1), Lineup2: names(lineup2)})

		match := s.rating.Match(sport, lineup1, lineup2, src)
		if s.commentator != nil {
			match.Commentary = s.commentator(sport, match.Side1, match.Side2)
		}
		if match.Winner == model.Side1 {
			res.Score1++
		} else {
			res.Score2++
		}
		res.Matches = append(res.Matches, match)
		s.notify(ctx, Event{Kind: SportResolved, Index: i, Sport: sport, Result: &match, Score1: res.Score1, Score2: res.Score2})

		if res.Score1 >= s.winsNeeded || res.Score2 >= s.winsNeeded {
			break
		}
	}

	switch {
	case res.Score1 > res.Score2:
		res.Winner = model.Side1
	case res.Score2 > res.Score1:
		res.Winner = model.Side2
	default:
		res.Winner = model.NoSide
	}

	if res.Winner != model.NoSide && s.progress != nil {
		if err := ctx.Err(); err != nil {
			return model.MultisportResult{}, fmt.Errorf("multisport aborted before progression: %w", err)
		}
		winners, losers := roster1, roster2
		if res.Winner == model.Side2 {
			winners, losers = roster2, roster1
		}
		res.Standouts = Standouts(winners, usage)
		report, err := s.progress.Apply(ctx, progression.Request{
			Winners:   names(winners),
			Losers:    names(losers),
			Context:   MultisportContext,
			Standouts: res.Standouts,
		}, src)
		if err != nil {
			return model.MultisportResult{}, err
		}
		res.Progression = report
	}

	s.notify(ctx, Event{Kind: MatchCompleted, Score1: res.Score1, Score2: res.Score2})
	s.log.Debug(ctx, "multisport resolved",
		logger.Int("score1", res.Score1),
		logger.Int("score2", res.Score2),
		logger.Int("sports", len(res.Matches)))
	return res, nil
}

// Lineup picks one side's lineup for sport. Members below the usage cap are
// eligible; when none are, the whole roster is (fallback reports true). A
// pool no larger than the lineup size is used whole; otherwise the best solo
// ratings win, ties kept in roster order.
func (s *Scheduler) Lineup(roster []model.Participant, usage map[string]int, sport model.Sport) ([]model.Participant, bool) {
	pool := make([]model.Participant, 0, len(roster))
	for _, p := range roster {
		if usage[p.Name] < s.usageCap {
			pool = append(pool, p)
		}
	}
	fallback := false
	if len(pool) == 0 {
		pool = append(pool, roster...)
		fallback = true
	}

	size := sport.LineupSize()
	if len(pool) <= size {
		return pool, fallback
	}

	scores := make(map[string]float64, len(pool))
	for _, p := range pool {
		scores[p.Name] = s.rating.Solo(p, sport)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return scores[pool[i].Name] > scores[pool[j].Name]
	})
	return pool[:size], fallback
}

// Standouts returns the first two winners, in roster order, who played at
// least one sport.
func Standouts(winners []model.Participant, usage map[string]int) []string {
	var out []string
	for _, p := range winners {
		if len(out) == progression.MaxStandouts {
			break
		}
		if usage[p.Name] > 0 && !slices.Contains(out, p.Name) {
			out = append(out, p.Name)
		}
	}
	return out
}

// pickSports samples the contest's sports without replacement.
func (s *Scheduler) pickSports(src random.Source) []model.Sport {
	all := s.catalog.Sports()
	src.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > s.sportsPerMatch {
		all = all[:s.sportsPerMatch]
	}
	return all
}

func (s *Scheduler) notify(ctx context.Context, e Event) {
	if s.observer != nil {
		s.observer(ctx, e)
	}
}

// duelist keeps the lineup's first member, or draws one from the full
// roster when the lineup is empty.
func duelist(lineup, roster []model.Participant, src random.Source) []model.Participant {
	if len(lineup) > 0 {
		return lineup[:1]
	}
	return []model.Participant{roster[src.IntN(len(roster))]}
}

func names(ps []model.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
