// Package types contains the read shapes returned by the HTTP API.
package types

import (
	"time"

	"github.com/okian/universus/internal/domain/model"
)

// Player is a participant plus its solo rating in every sport.
type Player struct {
	model.Participant
	Ratings map[string]float64 `json:"ratings,omitempty"`
}

// JobState tracks a queued match through the worker pool.
type JobState string

// Job states.
const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// Job is the status of one asynchronous match.
type Job struct {
	ID         string                  `json:"id"`
	RequestID  string                  `json:"request_id,omitempty"`
	State      JobState                `json:"state"`
	Request    model.MatchRequest      `json:"request"`
	Submitted  time.Time               `json:"submitted"`
	Finished   *time.Time              `json:"finished,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Single     *model.MatchResult      `json:"single,omitempty"`
	Multisport *model.MultisportResult `json:"multisport,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j Job) Terminal() bool { return j.State == JobDone || j.State == JobFailed }
