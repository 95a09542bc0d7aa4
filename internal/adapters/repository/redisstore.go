package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/seed"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

// DefaultRedisKey prefixes the roster hashes.
const DefaultRedisKey = "universus:roster"

// RedisClient is the subset of the go-redis client the store needs.
type RedisClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Close() error
}

// RedisStore keeps each roster in a hash of name to JSON record, under
// "<key>:official" and "<key>:community".
type RedisStore struct {
	client RedisClient
	key    string
	opts   options
}

// NewRedisStore returns a store on client. An empty key uses DefaultRedisKey.
func NewRedisStore(client RedisClient, key string, opts ...Option) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, opts: newOptions(opts)}
}

// NewRedisClient dials the server described by url.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // ping error takes precedence
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) officialKey() string  { return s.key + ":official" }
func (s *RedisStore) communityKey() string { return s.key + ":community" }

// LoadOfficial reads the official hash, seeding it when empty.
func (s *RedisStore) LoadOfficial(ctx context.Context) (map[string]model.Participant, error) {
	roster, err := s.load(ctx, s.officialKey())
	if err != nil {
		return nil, err
	}
	if len(roster) > 0 {
		repair(roster, model.OriginOfficial, s.opts.src)
		return roster, nil
	}

	roster = seed.Official(s.opts.src)
	if err := s.replace(ctx, s.officialKey(), roster); err != nil {
		metrics.RecordStoreError("seed")
		return nil, fmt.Errorf("seed official roster: %w", err)
	}
	s.opts.log.Info(ctx, "official roster seeded",
		logger.String("key", s.officialKey()),
		logger.Int("participants", len(roster)))
	return roster, nil
}

// LoadCommunity reads the community hash.
func (s *RedisStore) LoadCommunity(ctx context.Context) (map[string]model.Participant, error) {
	roster, err := s.load(ctx, s.communityKey())
	if err != nil {
		return nil, err
	}
	repair(roster, model.OriginCommunity, s.opts.src)
	return roster, nil
}

// SaveCommunity replaces the community hash in one MULTI/EXEC.
func (s *RedisStore) SaveCommunity(ctx context.Context, roster map[string]model.Participant) error {
	if err := s.replace(ctx, s.communityKey(), roster); err != nil {
		metrics.RecordStoreError("save")
		return err
	}
	return nil
}

// DeleteCommunity removes one field from the community hash.
func (s *RedisStore) DeleteCommunity(ctx context.Context, name string) error {
	n, err := s.client.HDel(ctx, s.communityKey(), name).Result()
	if err != nil {
		metrics.RecordStoreError("delete")
		return fmt.Errorf("redis hdel: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) load(ctx context.Context, key string) (map[string]model.Participant, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil && err != redis.Nil {
		metrics.RecordStoreError("load")
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	roster := make(map[string]model.Participant, len(fields))
	for name, raw := range fields {
		p, err := decodeRecord(name, []byte(raw))
		if err != nil {
			return nil, err
		}
		roster[name] = p
	}
	return roster, nil
}

func (s *RedisStore) replace(ctx context.Context, key string, roster map[string]model.Participant) error {
	values := make(map[string]interface{}, len(roster))
	for name, p := range roster {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		values[name] = string(b)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace %s: %w", key, err)
	}
	return nil
}
