package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/seed"
	"github.com/okian/universus/pkg/logger"
)

// FileStore keeps each roster in its own JSON document, an object keyed by
// participant name. Writes go to a temporary file that is renamed over the
// target.
type FileStore struct {
	officialPath  string
	communityPath string
	opts          options

	mu     sync.Mutex
	closed bool
}

// NewFileStore returns a store backed by two JSON files.
func NewFileStore(officialPath, communityPath string, opts ...Option) *FileStore {
	return &FileStore{
		officialPath:  officialPath,
		communityPath: communityPath,
		opts:          newOptions(opts),
	}
}

// LoadOfficial reads the official file. A missing file is created from the
// built-in roster.
func (s *FileStore) LoadOfficial(ctx context.Context) (map[string]model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	roster, err := readRoster(s.officialPath)
	if errors.Is(err, fs.ErrNotExist) {
		roster = seed.Official(s.opts.src)
		if err := writeRoster(s.officialPath, roster); err != nil {
			return nil, fmt.Errorf("seed official roster: %w", err)
		}
		s.opts.log.Info(ctx, "official roster seeded",
			logger.String("path", s.officialPath),
			logger.Int("participants", len(roster)))
		return roster, nil
	}
	if err != nil {
		return nil, err
	}
	repair(roster, model.OriginOfficial, s.opts.src)
	return roster, nil
}

// LoadCommunity reads the community file. A missing file is an empty roster.
func (s *FileStore) LoadCommunity(_ context.Context) (map[string]model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	roster, err := readRoster(s.communityPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]model.Participant{}, nil
	}
	if err != nil {
		return nil, err
	}
	repair(roster, model.OriginCommunity, s.opts.src)
	return roster, nil
}

// SaveCommunity replaces the community file.
func (s *FileStore) SaveCommunity(ctx context.Context, roster map[string]model.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return writeRoster(s.communityPath, roster)
}

// DeleteCommunity removes name from the community file.
func (s *FileStore) DeleteCommunity(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	roster, err := readRoster(s.communityPath)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, ok := roster[name]; !ok {
		return ErrNotFound
	}
	delete(roster, name)
	return writeRoster(s.communityPath, roster)
}

// Close marks the store closed; later calls return ErrClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func readRoster(path string) (map[string]model.Participant, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	roster := make(map[string]model.Participant, len(raw))
	for name, rec := range raw {
		p, err := decodeRecord(name, rec)
		if err != nil {
			return nil, err
		}
		roster[name] = p
	}
	return roster, nil
}

func writeRoster(path string, roster map[string]model.Participant) error {
	if roster == nil {
		roster = map[string]model.Participant{}
	}
	b, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write roster: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error takes precedence
		return fmt.Errorf("sync roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close roster: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace roster: %w", err)
	}
	return nil
}
