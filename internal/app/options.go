package service

import (
	"time"

	"github.com/okian/universus/internal/adapters/repository"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the roster store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the sport catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithJobRetention sets how many jobs are kept for status lookups.
func WithJobRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jobRetention = n
		}
	}
}

// WithSeed makes every random draw reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = &seed
	}
}

// WithCommentaryLines sets how many narrative lines each sport gets.
func WithCommentaryLines(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.commentaryLines = n
		}
	}
}

// WithStopTimeout bounds how long Stop waits for the workers to drain.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
