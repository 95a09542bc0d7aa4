package model

import "time"

// MatchKind selects single-sport or multisport resolution.
type MatchKind string

// Match kinds.
const (
	SingleMatch     MatchKind = "single"
	MultisportMatch MatchKind = "multisport"
)

// MatchRequest is a match to resolve. Sport is used by single-sport
// requests only.
type MatchRequest struct {
	Kind  MatchKind `json:"kind"`
	Sport string    `json:"sport,omitempty"`
	Side1 []string  `json:"side1"`
	Side2 []string  `json:"side2"`
}

// Job is a match request queued for a worker.
type Job struct {
	ID        string       `json:"id"`
	RequestID string       `json:"request_id,omitempty"`
	Request   MatchRequest `json:"request"`
	Submitted time.Time    `json:"submitted"`
}
