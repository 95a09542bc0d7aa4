package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/seed"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	origin TEXT  NOT NULL,
	name   TEXT  NOT NULL,
	record JSONB NOT NULL,
	PRIMARY KEY (origin, name)
)`

const (
	selectRoster  = `SELECT name, record FROM participants WHERE origin = $1`
	deleteRoster  = `DELETE FROM participants WHERE origin = $1`
	insertRecord  = `INSERT INTO participants (origin, name, record) VALUES ($1, $2, $3) ON CONFLICT (origin, name) DO NOTHING`
	deleteRecord  = `DELETE FROM participants WHERE origin = $1 AND name = $2`
	lockOfficial  = `SELECT pg_advisory_xact_lock(hashtext('universus.official'))`
	countOfficial = `SELECT count(*) FROM participants WHERE origin = $1`
)

// PgPool is the subset of pgxpool.Pool the store needs.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps both rosters in one table of JSONB records.
type PostgresStore struct {
	pool  PgPool
	close func()
	opts  options
}

// NewPostgresPool connects to url.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresStore ensures the schema exists and returns the store.
func NewPostgresStore(ctx context.Context, pool PgPool, opts ...Option) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &PostgresStore{pool: pool, opts: newOptions(opts)}
	if p, ok := pool.(*pgxpool.Pool); ok {
		s.close = p.Close
	}
	return s, nil
}

// LoadOfficial reads official rows. When there are none the built-in roster
// is inserted under an advisory lock so concurrent instances seed once.
func (s *PostgresStore) LoadOfficial(ctx context.Context) (map[string]model.Participant, error) {
	roster, err := s.load(ctx, model.OriginOfficial)
	if err != nil {
		return nil, err
	}
	if len(roster) > 0 {
		repair(roster, model.OriginOfficial, s.opts.src)
		return roster, nil
	}

	if err := s.seed(ctx); err != nil {
		metrics.RecordStoreError("seed")
		return nil, fmt.Errorf("seed official roster: %w", err)
	}
	roster, err = s.load(ctx, model.OriginOfficial)
	if err != nil {
		return nil, err
	}
	repair(roster, model.OriginOfficial, s.opts.src)
	return roster, nil
}

// LoadCommunity reads community rows.
func (s *PostgresStore) LoadCommunity(ctx context.Context) (map[string]model.Participant, error) {
	roster, err := s.load(ctx, model.OriginCommunity)
	if err != nil {
		return nil, err
	}
	repair(roster, model.OriginCommunity, s.opts.src)
	return roster, nil
}

// SaveCommunity replaces every community row in one transaction.
func (s *PostgresStore) SaveCommunity(ctx context.Context, roster map[string]model.Participant) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteRoster, string(model.OriginCommunity)); err != nil {
			return err
		}
		return insertAll(ctx, tx, model.OriginCommunity, roster)
	})
	if err != nil {
		metrics.RecordStoreError("save")
		return fmt.Errorf("save community roster: %w", err)
	}
	return nil
}

// DeleteCommunity removes one community row.
func (s *PostgresStore) DeleteCommunity(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, deleteRecord, string(model.OriginCommunity), name)
	if err != nil {
		metrics.RecordStoreError("delete")
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the pool when the store was built on a *pgxpool.Pool.
func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, origin model.Origin) (map[string]model.Participant, error) {
	rows, err := s.pool.Query(ctx, selectRoster, string(origin))
	if err != nil {
		metrics.RecordStoreError("load")
		return nil, fmt.Errorf("query %s roster: %w", origin, err)
	}
	defer rows.Close()

	roster := map[string]model.Participant{}
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan %s roster: %w", origin, err)
		}
		p, err := decodeRecord(name, raw)
		if err != nil {
			return nil, err
		}
		roster[name] = p
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError("load")
		return nil, fmt.Errorf("read %s roster: %w", origin, err)
	}
	return roster, nil
}

func (s *PostgresStore) seed(ctx context.Context) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockOfficial); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRow(ctx, countOfficial, string(model.OriginOfficial)).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		roster := seed.Official(s.opts.src)
		if err := insertAll(ctx, tx, model.OriginOfficial, roster); err != nil {
			return err
		}
		s.opts.log.Info(ctx, "official roster seeded", logger.Int("participants", len(roster)))
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.opts.log.Warn(ctx, "rollback failed", logger.Error(rbErr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertAll(ctx context.Context, tx pgx.Tx, origin model.Origin, roster map[string]model.Participant) error {
	if len(roster) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for name, p := range roster {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		batch.Queue(insertRecord, string(origin), name, raw)
	}
	return tx.SendBatch(ctx, batch).Close()
}
