package simload

import "time"

// Default run parameters.
const (
	DefaultPlayers      = 50
	DefaultMatches      = 1000
	DefaultJobRatio     = 0.25
	DefaultRosterSize   = 3
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 20 * time.Millisecond
)

// Contest bounds checked after every multisport result.
const (
	maxSports   = 5
	winsNeeded  = 3
	namePrefix  = "load-"
	nameIDChars = 8
)
