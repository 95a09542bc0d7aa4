// Package simload drives a running simulator over HTTP: it registers
// community players, plays many contests concurrently and then checks
// the roster and results for consistency.
package simload

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Players      int           // Community players to register
	Matches      int           // Multisport contests to play
	JobRatio     float64       // Share of contests submitted as async jobs
	RosterSize   int           // Names per side
	Workers      int           // Concurrent clients
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Job status poll interval
	Seed         uint64        // Generator seed, 0 draws one
	Cleanup      bool          // Delete registered players at the end
	Verbose      bool          // Log every contest
}

// Stats holds run statistics.
type Stats struct {
	PlayersCreated int
	MatchesPlayed  int
	JobsSubmitted  int
	JobsDuplicate  int
	JobsFailed     int
	Promotions     int
	Demotions      int
	Side1Wins      int
	Side2Wins      int
	Ties           int
	PlayersChecked int
	PlayersRemoved int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
