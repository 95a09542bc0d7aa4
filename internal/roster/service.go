// Package roster owns the merged official and community roster and is the
// only writer of community records.
package roster

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/okian/universus/internal/adapters/repository"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

// CreationCap is the highest tier a community participant can be created
// or overwritten with.
const CreationCap = model.TierB

// UpsertRequest describes a community participant to create or overwrite.
// Unset tiers count as B; an empty weight class means Middleweight.
type UpsertRequest struct {
	Name        string
	Tiers       model.TierVector
	WeightClass model.WeightClass
}

// Service holds the roster in memory and writes community changes through
// to the store. Writes are serialized; reads take a shared lock.
type Service struct {
	store   repository.Store
	catalog *catalog.Catalog
	src     random.Source
	log     logger.Logger

	mu        sync.RWMutex
	official  map[string]model.Participant
	community map[string]model.Participant
}

// New returns a Service on store. Call Load before use.
func New(store repository.Store, c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		store:     store,
		catalog:   c,
		log:       logger.NewNop(),
		official:  map[string]model.Participant{},
		community: map[string]model.Participant{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		seed, err := random.NewSeed()
		if err != nil {
			seed = 1
		}
		s.src = random.NewLocked(random.New(seed))
	}
	return s
}

// Load reads both rosters from the store. A community record sharing a name
// with an official one is dropped from memory; the official record wins.
func (s *Service) Load(ctx context.Context) error {
	official, err := s.store.LoadOfficial(ctx)
	if err != nil {
		return fmt.Errorf("load official roster: %w", err)
	}
	community, err := s.store.LoadCommunity(ctx)
	if err != nil {
		return fmt.Errorf("load community roster: %w", err)
	}
	for name := range community {
		if _, clash := official[name]; clash {
			s.log.Warn(ctx, "community record shadowed by official participant", logger.String("name", name))
			delete(community, name)
		}
	}

	s.mu.Lock()
	s.official, s.community = official, community
	s.mu.Unlock()

	metrics.UpdateRosterSize(string(model.OriginOfficial), len(official))
	metrics.UpdateRosterSize(string(model.OriginCommunity), len(community))
	s.log.Info(ctx, "roster loaded",
		logger.Int("official", len(official)),
		logger.Int("community", len(community)))
	return nil
}

// Lookup returns the participant called name.
func (s *Service) Lookup(name string) (model.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(name)
}

func (s *Service) lookup(name string) (model.Participant, bool) {
	if p, ok := s.official[name]; ok {
		return p, true
	}
	p, ok := s.community[name]
	return p, ok
}

// Resolve returns the participants for names in order, plus every name that
// is not on the roster.
func (s *Service) Resolve(names []string) ([]model.Participant, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Participant, 0, len(names))
	var missing []string
	for _, n := range names {
		p, ok := s.lookup(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		out = append(out, p)
	}
	return out, missing
}

// List returns every participant, official first, then by name.
func (s *Service) List() []model.Participant {
	s.mu.RLock()
	out := make([]model.Participant, 0, len(s.official)+len(s.community))
	for _, p := range s.official {
		out = append(out, p)
	}
	for _, p := range s.community {
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Participant) int {
		if a.IsOfficial() != b.IsOfficial() {
			if a.IsOfficial() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Counts returns the number of official and community participants.
func (s *Service) Counts() (official, community int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.official), len(s.community)
}

// Upsert creates or overwrites a community participant. Tiers above B are
// capped to B, stats are rolled within each tier and the specialization is
// derived from the capped tiers.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (model.Participant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Participant{}, ErrInvalidName
	}
	wc := req.WeightClass
	if wc == "" {
		wc = catalog.DefaultWeightClass
	}
	if !s.catalog.KnownWeightClass(wc) {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrUnknownWeightClass, wc)
	}

	var tiers model.TierVector
	for _, st := range model.Stats {
		t := req.Tiers[st]
		if !t.Valid() {
			t = model.TierB
		}
		tiers[st] = t.Cap(CreationCap)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.official[name]; ok {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrProtected, name)
	}
	// Rolled under the write lock so seeded runs draw in commit order.
	p := model.Participant{
		Name:           name,
		Stats:          catalog.RollStats(tiers, s.src),
		Tiers:          tiers,
		WeightClass:    wc,
		Specialization: catalog.DeriveSpecialization(tiers),
		Origin:         model.OriginCommunity,
	}
	next := cloneWith(s.community, p)
	if err := s.save(ctx, next); err != nil {
		return model.Participant{}, err
	}
	s.community = next
	metrics.UpdateRosterSize(string(model.OriginCommunity), len(next))
	s.log.Info(ctx, "community participant saved",
		logger.String("name", name),
		logger.String("specialization", string(p.Specialization)))
	return p, nil
}

// Delete removes a community participant.
func (s *Service) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.official[name]; ok {
		return fmt.Errorf("%w: %s", ErrProtected, name)
	}
	if _, ok := s.community[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := s.store.DeleteCommunity(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		metrics.RecordStoreError("delete")
		s.log.Error(ctx, "community delete failed", logger.String("name", name), logger.Error(err))
		return fmt.Errorf("delete %s: %w", name, err)
	}
	delete(s.community, name)
	metrics.UpdateRosterSize(string(model.OriginCommunity), len(s.community))
	return nil
}

// Mutate runs fn under the write lock and persists the community records it
// returns in one save. lookup reads the current roster. Memory is updated
// only after the save succeeds; an empty result writes nothing.
func (s *Service) Mutate(ctx context.Context, fn func(lookup func(name string) (model.Participant, bool)) ([]model.Participant, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := fn(s.lookup)
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return nil
	}

	next := cloneWith(s.community)
	for _, p := range updated {
		if _, ok := s.official[p.Name]; ok || p.IsOfficial() {
			return fmt.Errorf("%w: %s", ErrProtected, p.Name)
		}
		next[p.Name] = p
	}
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.community = next
	return nil
}

func (s *Service) save(ctx context.Context, roster map[string]model.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.SaveCommunity(ctx, roster); err != nil {
		metrics.RecordStoreError("save")
		s.log.Error(ctx, "community save failed", logger.Error(err))
		return fmt.Errorf("save community roster: %w", err)
	}
	return nil
}

func cloneWith(m map[string]model.Participant, extra ...model.Participant) map[string]model.Participant {
	out := make(map[string]model.Participant, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for _, p := range extra {
		out[p.Name] = p
	}
	return out
}
