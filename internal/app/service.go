// Package service wires the roster, the simulator and the job pipeline
// into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/universus/internal/adapters/mq/queue"
	"github.com/okian/universus/internal/adapters/mq/worker"
	"github.com/okian/universus/internal/adapters/repository"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/dedupe"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/simulation"
	"github.com/okian/universus/internal/domain/types"
	"github.com/okian/universus/internal/roster"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

const (
	defaultQueueSize   = 1024
	defaultDedupeSize  = 50000
	defaultStopTimeout = 10 * time.Second
)

// Service implements the API dependencies for the simulator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	catalog *catalog.Catalog
	roster  *roster.Service
	sim     *simulation.Simulator
	index   dedupe.Index
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	jobs    *jobRegistry

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	jobRetention    int
	commentaryLines int
	seed            *uint64
	stopTimeout     time.Duration

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Components are built on Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		jobRetention: defaultJobRetention,
		stopTimeout:  defaultStopTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the roster and starts the worker pool. Without a store an
// in-memory one seeded with the official roster is used; without a catalog
// the built-in one is.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting simulator service...")

	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.store == nil {
		var ropts []repository.Option
		if s.seed != nil {
			ropts = append(ropts, repository.WithSource(random.New(*s.seed)))
		}
		s.store = repository.NewMemoryStore(nil, append(ropts, repository.WithLogger(s.logger))...)
		s.logger.Info(ctx, "using memory store")
	}

	rosterOpts := []roster.Option{roster.WithLogger(s.logger.Named("roster"))}
	simOpts := []simulation.Option{
		simulation.WithLogger(s.logger.Named("simulation")),
		simulation.WithCommentary(s.commentaryLines),
	}
	if s.seed != nil {
		rosterOpts = append(rosterOpts, roster.WithSource(random.New(*s.seed+1)))
		simOpts = append(simOpts, simulation.WithSource(random.New(*s.seed+2)))
	}

	s.roster = roster.New(s.store, s.catalog, rosterOpts...)
	if err := s.roster.Load(ctx); err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	s.sim = simulation.New(s.catalog, s.roster, simOpts...)
	s.index = dedupe.NewMemoryIndex(dedupe.WithMaxSize(s.dedupeSize))
	s.jobs = newJobRegistry(s.jobRetention)
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)

	// Workers outlive the start request; Stop cancels them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = worker.NewPool(s.workerCount, s.queue, &jobRunner{sim: s.sim, jobs: s.jobs}, worker.WithLogger(s.logger))
	s.pool.Start(runCtx)

	s.started = true
	official, community := s.roster.Counts()
	s.logger.Info(ctx, "simulator service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("official", official),
		logger.Int("community", community),
	)
	return nil
}

// Stop drains the job queue and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping simulator service...")

	stopCtx, cancel := context.WithTimeout(ctx, s.stopTimeout)
	defer cancel()

	var errs []error
	if err := s.pool.Shutdown(stopCtx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "simulator service stopped")
	return errors.Join(errs...)
}

// Sports returns the sport catalog.
func (s *Service) Sports() []model.Sport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return catalog.Default().Sports()
	}
	return s.catalog.Sports()
}

// WeightClasses lists the known weight classes, lightest first.
func (s *Service) WeightClasses() []model.WeightClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return catalog.Default().WeightClasses()
	}
	return s.catalog.WeightClasses()
}

// Players lists the roster, official participants first.
func (s *Service) Players() ([]types.Player, error) {
	r, sim, err := s.domain()
	if err != nil {
		return nil, err
	}
	list := r.List()
	out := make([]types.Player, len(list))
	for i, p := range list {
		out[i] = types.Player{Participant: p, Ratings: sim.Ratings(p)}
	}
	return out, nil
}

// Player returns one participant with its ratings.
func (s *Service) Player(name string) (types.Player, error) {
	r, sim, err := s.domain()
	if err != nil {
		return types.Player{}, err
	}
	p, ok := r.Lookup(strings.TrimSpace(name))
	if !ok {
		return types.Player{}, fmt.Errorf("%w: %s", roster.ErrNotFound, name)
	}
	return types.Player{Participant: p, Ratings: sim.Ratings(p)}, nil
}

// UpsertPlayer creates or replaces a community participant.
func (s *Service) UpsertPlayer(ctx context.Context, req roster.UpsertRequest) (types.Player, error) {
	r, sim, err := s.domain()
	if err != nil {
		return types.Player{}, err
	}
	p, err := r.Upsert(ctx, req)
	if err != nil {
		return types.Player{}, err
	}
	return types.Player{Participant: p, Ratings: sim.Ratings(p)}, nil
}

// DeletePlayer removes a community participant.
func (s *Service) DeletePlayer(ctx context.Context, name string) error {
	r, _, err := s.domain()
	if err != nil {
		return err
	}
	return r.Delete(ctx, name)
}

// SimulateSingle resolves one sport synchronously.
func (s *Service) SimulateSingle(ctx context.Context, sport string, side1, side2 []string) (model.MatchResult, error) {
	_, sim, err := s.domain()
	if err != nil {
		return model.MatchResult{}, err
	}
	return sim.SimulateSingle(ctx, sport, side1, side2)
}

// SimulateMultisport plays a best-of-five contest synchronously.
func (s *Service) SimulateMultisport(ctx context.Context, roster1, roster2 []string) (model.MultisportResult, error) {
	_, sim, err := s.domain()
	if err != nil {
		return model.MultisportResult{}, err
	}
	return sim.SimulateMultisport(ctx, roster1, roster2)
}

// SubmitJob queues a match for the worker pool. A non-empty requestID makes
// the submission idempotent: a repeat returns the first job and true.
func (s *Service) SubmitJob(ctx context.Context, requestID string, req model.MatchRequest) (types.Job, bool, error) {
	s.mu.RLock()
	started, index, q, jobs := s.started, s.index, s.queue, s.jobs
	s.mu.RUnlock()
	if !started {
		return types.Job{}, false, ErrNotStarted
	}
	if err := checkRequest(req); err != nil {
		return types.Job{}, false, err
	}

	id := uuid.NewString()
	submitted := time.Now().UTC()
	job := types.Job{ID: id, RequestID: requestID, State: types.JobQueued, Request: req, Submitted: submitted}
	// Registered before the claim so a concurrent repeat always finds it.
	jobs.add(job)
	if requestID != "" {
		if existing, dup := index.Claim(ctx, requestID, id); dup {
			jobs.remove(id)
			metrics.RecordJobDuplicate()
			s.logger.Debug(ctx, "duplicate job request", logger.String("requestID", requestID), logger.String("jobID", existing))
			if j, ok := jobs.get(existing); ok {
				return j, true, nil
			}
			// Only finished jobs are evicted from the registry.
			return types.Job{ID: existing, RequestID: requestID, State: types.JobDone, Request: req}, true, nil
		}
	}

	if !q.Enqueue(ctx, model.Job{ID: id, RequestID: requestID, Request: req, Submitted: submitted}) {
		jobs.remove(id)
		if requestID != "" {
			index.Release(ctx, requestID)
		}
		if q.IsClosed() {
			return types.Job{}, false, ErrNotStarted
		}
		return types.Job{}, false, queue.ErrQueueFull
	}
	s.logger.Debug(ctx, "job queued", logger.String("jobID", id), logger.String("kind", string(req.Kind)))
	return job, false, nil
}

// Job returns the status of a submitted job.
func (s *Service) Job(id string) (types.Job, error) {
	s.mu.RLock()
	started, jobs := s.started, s.jobs
	s.mu.RUnlock()
	if !started {
		return types.Job{}, ErrNotStarted
	}
	j, ok := jobs.get(id)
	if !ok {
		return types.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return j, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		official, community := s.roster.Counts()
		stats["workerCount"] = s.pool.Size()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["processedJobs"] = s.pool.Processed()
		stats["requestIDs"] = s.index.Size()
		stats["officialPlayers"] = official
		stats["communityPlayers"] = community
		stats["sports"] = len(s.catalog.Sports())

		jobStats := make(map[string]int, 4)
		for st, n := range s.jobs.counts() {
			jobStats[string(st)] = n
		}
		stats["jobs"] = jobStats

		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}

func (s *Service) domain() (*roster.Service, *simulation.Simulator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.roster, s.sim, nil
}

func checkRequest(req model.MatchRequest) error {
	switch req.Kind {
	case model.SingleMatch:
		if strings.TrimSpace(req.Sport) == "" {
			return fmt.Errorf("%w: single matches need a sport", ErrInvalidJob)
		}
	case model.MultisportMatch:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, req.Kind)
	}
	if len(req.Side1) == 0 || len(req.Side2) == 0 {
		return fmt.Errorf("%w: both sides need participants", ErrInvalidJob)
	}
	return nil
}
