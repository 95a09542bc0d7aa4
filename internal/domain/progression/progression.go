package progression

import (
	"context"
	"fmt"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

// Roster is the commit target. Mutate must hold exclusive access across
// the callback and the save, and must persist the returned community records
// in one atomic call.
type Roster interface {
	Mutate(ctx context.Context, fn func(lookup func(name string) (model.Participant, bool)) ([]model.Participant, error)) error
}

// Request names the sides of a resolved match.
type Request struct {
	Winners   []string
	Losers    []string
	Context   string
	Standouts []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine decides and commits tier drift.
type Engine struct {
	roster Roster
	log    logger.Logger
}

// New returns an Engine committing to r.
func New(r Roster, opts ...Option) *Engine {
	e := &Engine{roster: r, log: logger.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply reads the named participants under the roster lock, decides their
// drift with src and commits every change at once. Nothing is written when
// ctx is done before the commit or when no community participant took part.
func (e *Engine) Apply(ctx context.Context, req Request, src random.Source) (*model.ProgressionReport, error) {
	if len(req.Standouts) > MaxStandouts {
		req.Standouts = req.Standouts[:MaxStandouts]
	}

	var decided Outcome
	err := e.roster.Mutate(ctx, func(lookup func(string) (model.Participant, bool)) ([]model.Participant, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decided = Decide(Input{
			Winners:   resolve(lookup, req.Winners),
			Losers:    resolve(lookup, req.Losers),
			Context:   req.Context,
			Standouts: req.Standouts,
		}, src)
		return decided.Updated, nil
	})
	if err != nil {
		metrics.RecordProgressionCommit(false)
		e.log.Error(ctx, "progression commit failed", logger.String("context", req.Context), logger.Error(err))
		return nil, fmt.Errorf("commit progression: %w", err)
	}

	report := decided.Report
	if len(report.Updated) > 0 {
		metrics.RecordProgressionCommit(true)
		metrics.RecordProgressionChanges(report.Promotions(), report.Demotions(), len(report.Respecialized))
	}
	e.log.Debug(ctx, "progression applied",
		logger.String("context", req.Context),
		logger.Int("updated", len(report.Updated)),
		logger.Int("promotions", report.Promotions()),
		logger.Int("demotions", report.Demotions()))
	return &report, nil
}

func resolve(lookup func(string) (model.Participant, bool), names []string) []model.Participant {
	out := make([]model.Participant, 0, len(names))
	for _, n := range names {
		if p, ok := lookup(n); ok {
			out = append(out, p)
		}
	}
	return out
}
