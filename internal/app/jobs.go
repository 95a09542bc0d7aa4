package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/simulation"
	"github.com/okian/universus/internal/domain/types"
)

const defaultJobRetention = 10000

// jobRegistry keeps job status for lookups. Once more than max jobs are
// held, the oldest finished ones are forgotten.
type jobRegistry struct {
	mu    sync.RWMutex
	jobs  map[string]*types.Job
	order []string
	max   int
}

func newJobRegistry(maxJobs int) *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*types.Job), max: maxJobs}
}

func (r *jobRegistry) add(j types.Job) { //nolint:gocritic // hugeParam: stored by value
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = &j
	r.order = append(r.order, j.ID)
	r.evict()
}

func (r *jobRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *jobRegistry) get(id string) (types.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return types.Job{}, false
	}
	return *j, true
}

func (r *jobRegistry) update(id string, fn func(*types.Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
	}
}

// counts returns the number of held jobs per state.
func (r *jobRegistry) counts() map[types.JobState]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[types.JobState]int, 4)
	for _, j := range r.jobs {
		out[j.State]++
	}
	return out
}

// evict drops finished jobs, oldest first, until the registry fits. Jobs
// still queued or running are never dropped.
func (r *jobRegistry) evict() {
	if len(r.order) <= r.max {
		return
	}
	kept := r.order[:0]
	excess := len(r.order) - r.max
	for _, id := range r.order {
		if excess > 0 && r.jobs[id].Terminal() {
			delete(r.jobs, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
}

// jobRunner adapts the simulator to worker.Processor.
type jobRunner struct {
	sim  *simulation.Simulator
	jobs *jobRegistry
}

func (r *jobRunner) Process(ctx context.Context, j model.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	r.jobs.update(j.ID, func(job *types.Job) { job.State = types.JobRunning })

	var (
		single *model.MatchResult
		multi  *model.MultisportResult
		err    error
	)
	switch j.Request.Kind {
	case model.SingleMatch:
		var res model.MatchResult
		if res, err = r.sim.SimulateSingle(ctx, j.Request.Sport, j.Request.Side1, j.Request.Side2); err == nil {
			single = &res
		}
	case model.MultisportMatch:
		var res model.MultisportResult
		if res, err = r.sim.SimulateMultisport(ctx, j.Request.Side1, j.Request.Side2); err == nil {
			multi = &res
		}
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, j.Request.Kind)
	}

	now := time.Now().UTC()
	r.jobs.update(j.ID, func(job *types.Job) {
		job.Finished = &now
		job.Single, job.Multisport = single, multi
		if err != nil {
			job.State = types.JobFailed
			job.Error = err.Error()
			return
		}
		job.State = types.JobDone
	})
	return err
}
