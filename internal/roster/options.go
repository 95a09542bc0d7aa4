package roster

import (
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/pkg/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithSource sets the source used to roll stats on upsert. It is wrapped so
// concurrent callers may share it.
func WithSource(src random.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = random.NewLocked(src)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
