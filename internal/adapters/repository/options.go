package repository

import (
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/pkg/logger"
)

// Option configures a store backend.
type Option func(*options)

type options struct {
	src random.Source
	log logger.Logger
}

func newOptions(opts []Option) options {
	o := options{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		seed, err := random.NewSeed()
		if err != nil {
			seed = 1
		}
		o.src = random.NewLocked(random.New(seed))
	}
	return o
}

// WithSource sets the source used to roll seeded and repaired stats.
func WithSource(src random.Source) Option {
	return func(o *options) {
		if src != nil {
			o.src = src
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
