package simload

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/pkg/logger"
)

const percentageMultiplier = 100

// Runner executes load runs against one service.
type Runner struct {
	cfg    Config
	client *Client
	gen    *Generator

	mu    sync.Mutex
	stats Stats
}

// NewRunner fills unset fields of cfg with defaults and returns a Runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU() * 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RosterSize <= 0 {
		cfg.RosterSize = DefaultRosterSize
	}
	return &Runner{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.Timeout),
		gen:    NewGenerator(cfg.Seed),
	}
}

// Run executes the complete load test and returns its statistics.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	log := logger.Get()
	r.stats = Stats{StartTime: time.Now()}

	log.Info(ctx, "starting simulator load run",
		logger.String("baseURL", r.cfg.BaseURL),
		logger.Int("players", r.cfg.Players),
		logger.Int("matches", r.cfg.Matches),
		logger.Int("workers", r.cfg.Workers),
		logger.Float64("jobRatio", r.cfg.JobRatio))

	// Step 1: Check service health
	if err := r.client.Health(ctx); err != nil {
		return r.stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot the roster
	before, err := r.client.Players(ctx)
	if err != nil {
		return r.stats, fmt.Errorf("roster snapshot failed: %w", err)
	}
	classes, err := r.client.WeightClasses(ctx)
	if err != nil {
		return r.stats, fmt.Errorf("catalog fetch failed: %w", err)
	}

	// Step 3: Register community players
	specs := r.gen.Players(r.cfg.Players, classes)
	if err := r.register(ctx, specs); err != nil {
		return r.stats, fmt.Errorf("player registration failed: %w", err)
	}

	// Step 4: Play contests concurrently
	pool := make([]string, 0, len(before)+len(specs))
	for _, p := range before {
		pool = append(pool, p.Name)
	}
	for _, s := range specs {
		pool = append(pool, s.Name)
	}
	contests := r.gen.Contests(r.cfg.Matches, r.cfg.RosterSize, pool, r.cfg.JobRatio)
	if err := r.play(ctx, contests); err != nil {
		return r.stats, fmt.Errorf("contests failed: %w", err)
	}

	// Step 5: Verify the roster
	after, err := r.client.Players(ctx)
	if err != nil {
		return r.stats, fmt.Errorf("roster snapshot failed: %w", err)
	}
	if err := CheckOfficials(before, after); err != nil {
		return r.stats, err
	}
	if err := CheckRoster(after); err != nil {
		return r.stats, err
	}
	r.stats.PlayersChecked = len(after)

	// Step 6: Remove the load players. Failed runs keep them for inspection.
	if r.cfg.Cleanup {
		r.cleanup(ctx, specs)
	}

	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	r.logStats(ctx)
	return r.stats, nil
}

func (r *Runner) register(ctx context.Context, specs []PlayerSpec) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, spec := range specs {
		g.Go(func() error {
			p, err := r.client.PutPlayer(gctx, spec.Name, spec.Tiers, spec.WeightClass)
			if err != nil {
				return err
			}
			if p.IsOfficial() || p.Tiers.Max() > model.TierB {
				return fmt.Errorf("%w: %s registered above the creation cap", ErrInvariant, p.Name)
			}
			r.update(func(s *Stats) { s.PlayersCreated++ })
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) play(ctx context.Context, contests []Contest) error {
	log := logger.Get()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, c := range contests {
		g.Go(func() error {
			res, err := r.contest(gctx, c)
			if err != nil {
				return fmt.Errorf("contest %d: %w", i, err)
			}
			if err := CheckResult(c, res); err != nil {
				return fmt.Errorf("contest %d: %w", i, err)
			}
			r.record(res)
			if r.cfg.Verbose {
				log.Info(gctx, "contest played",
					logger.Int("index", i),
					logger.Strings("side1", c.Side1),
					logger.Strings("side2", c.Side2),
					logger.Int("score1", res.Score1),
					logger.Int("score2", res.Score2),
					logger.Bool("async", c.Async))
			}
			return nil
		})
	}
	return g.Wait()
}

// contest plays c directly or through the job queue. Queued contests are
// submitted twice to exercise request deduplication.
func (r *Runner) contest(ctx context.Context, c Contest) (model.MultisportResult, error) {
	if !c.Async {
		return r.client.Multisport(ctx, c.Side1, c.Side2)
	}

	ack, err := r.client.SubmitMultisport(ctx, c.Key, c.Side1, c.Side2)
	if err != nil {
		return model.MultisportResult{}, err
	}
	again, err := r.client.SubmitMultisport(ctx, c.Key, c.Side1, c.Side2)
	if err != nil {
		return model.MultisportResult{}, err
	}
	if !again.Duplicate || again.JobID != ack.JobID {
		return model.MultisportResult{}, fmt.Errorf("%w: key %s was not deduplicated", ErrInvariant, c.Key)
	}
	r.update(func(s *Stats) {
		s.JobsSubmitted++
		s.JobsDuplicate++
	})

	job, err := r.client.WaitJob(ctx, ack.JobID, r.cfg.PollInterval)
	if err != nil {
		return model.MultisportResult{}, err
	}
	if job.Multisport == nil {
		r.update(func(s *Stats) { s.JobsFailed++ })
		return model.MultisportResult{}, fmt.Errorf("job %s %s: %s", job.ID, job.State, job.Error)
	}
	return *job.Multisport, nil
}

func (r *Runner) record(res model.MultisportResult) {
	r.update(func(s *Stats) {
		s.MatchesPlayed++
		switch res.Winner {
		case model.Side1:
			s.Side1Wins++
		case model.Side2:
			s.Side2Wins++
		default:
			s.Ties++
		}
		if res.Progression != nil {
			s.Promotions += res.Progression.Promotions()
			s.Demotions += res.Progression.Demotions()
		}
	})
}

func (r *Runner) cleanup(ctx context.Context, specs []PlayerSpec) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, spec := range specs {
		g.Go(func() error {
			if err := r.client.DeletePlayer(gctx, spec.Name); err != nil {
				return err
			}
			r.update(func(s *Stats) { s.PlayersRemoved++ })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Get().Warn(ctx, "failed to remove load players", logger.Error(err))
	}
}

func (r *Runner) update(fn func(*Stats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.stats)
}

// logStats prints the final run statistics.
func (r *Runner) logStats(ctx context.Context) {
	var side1Rate, matchesPerSecond float64
	if r.stats.MatchesPlayed > 0 {
		side1Rate = float64(r.stats.Side1Wins) / float64(r.stats.MatchesPlayed) * percentageMultiplier
	}
	if r.stats.Duration > 0 {
		matchesPerSecond = float64(r.stats.MatchesPlayed) / r.stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("playersCreated", r.stats.PlayersCreated),
		logger.Int("matchesPlayed", r.stats.MatchesPlayed),
		logger.Int("jobsSubmitted", r.stats.JobsSubmitted),
		logger.Int("jobsDuplicate", r.stats.JobsDuplicate),
		logger.Int("jobsFailed", r.stats.JobsFailed),
		logger.Int("promotions", r.stats.Promotions),
		logger.Int("demotions", r.stats.Demotions),
		logger.Int("playersChecked", r.stats.PlayersChecked),
		logger.String("duration", r.stats.Duration.String()),
		logger.Float64("side1WinRate", side1Rate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
