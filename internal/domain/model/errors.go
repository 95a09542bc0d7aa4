package model

import "errors"

// Sentinel errors for model parsing and validation.
var (
	ErrUnknownStat    = errors.New("unknown stat")
	ErrInvalidTier    = errors.New("invalid tier")
	ErrNegativeWeight = errors.New("negative sport weight")
	ErrInvalidSport   = errors.New("invalid sport definition")
)
