package repository

import (
	"context"
	"sync"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/seed"
)

// MemoryStore keeps rosters in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	official  map[string]model.Participant
	community map[string]model.Participant
	closed    bool
}

// NewMemoryStore returns an in-memory store holding official. An empty
// official roster is replaced by the built-in one.
func NewMemoryStore(official map[string]model.Participant, opts ...Option) *MemoryStore {
	o := newOptions(opts)
	if len(official) == 0 {
		official = seed.Official(o.src)
	} else {
		official = copyRoster(official)
		repair(official, model.OriginOfficial, o.src)
	}
	return &MemoryStore{
		official:  official,
		community: map[string]model.Participant{},
	}
}

// LoadOfficial returns a copy of the official roster.
func (s *MemoryStore) LoadOfficial(_ context.Context) (map[string]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return copyRoster(s.official), nil
}

// LoadCommunity returns a copy of the community roster.
func (s *MemoryStore) LoadCommunity(_ context.Context) (map[string]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return copyRoster(s.community), nil
}

// SaveCommunity replaces the community roster.
func (s *MemoryStore) SaveCommunity(ctx context.Context, roster map[string]model.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.community = copyRoster(roster)
	return nil
}

// DeleteCommunity removes name from the community roster.
func (s *MemoryStore) DeleteCommunity(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.community[name]; !ok {
		return ErrNotFound
	}
	delete(s.community, name)
	return nil
}

// Close marks the store closed; later calls return ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
