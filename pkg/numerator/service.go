// Package numerator provides document auto-numbering backed by a
// sys_sequences table. It implements the domain Generator contract.
package numerator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	core "kardex/internal/core/numerator"
)

// Strategy selects the number generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Sequential without gaps, one round trip per number.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory. Faster,
	// but restarts leave gaps. Fine for internal documents.
	StrategyCached
)

// Options tune number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is how many numbers a cached allocation reserves.
	RangeSize int64
}

// Querier is the minimal database surface the service needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service generates document numbers. Calls run against the pool
// directly, outside business transactions: a rolled-back post burns a
// number rather than serializing posters on the sequence row.
type Service struct {
	querier Querier
	opts    Options

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// Compile-time contract check.
var _ core.Generator = (*Service)(nil)

// New creates a strict numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		opts:    Options{Strategy: StrategyStrict},
		ranges:  make(map[string]*cachedRange),
	}
}

// NewWithOptions creates a numerator service with explicit options.
func NewWithOptions(querier Querier, opts Options) *Service {
	return &Service{
		querier: querier,
		opts:    opts,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YEAR-XXXXX (e.g., MOV-2026-00001). Sequences reset
// yearly: the key carries the period year.
func (s *Service) GetNextNumber(ctx context.Context, cfg core.Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := buildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch s.opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, key)
	default:
		num, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

// nextStrict bumps the sequence row and returns the new value.
func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next number for %s: %w", key, err)
	}
	return num, nil
}

// nextCached serves from the in-memory range, reserving a fresh block
// from the database when the range is exhausted. current_val tracks the
// last value handed out, so a reservation of N covers
// (old_val+1 .. old_val+N).
func (s *Service) nextCached(ctx context.Context, key string) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := s.opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range for %s: %w", key, err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber overrides the sequence value, for migrations.
func (s *Service) SetNextNumber(ctx context.Context, cfg core.Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

func buildKey(cfg core.Config, period time.Time) string {
	if cfg.IncludeYear {
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	}
	return cfg.Prefix
}

func formatNumber(cfg core.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth <= 0 {
		padWidth = 5
	}

	var b strings.Builder
	b.WriteString(cfg.Prefix)
	if cfg.IncludeYear {
		b.WriteString("-")
		b.WriteString(period.Format("2006"))
	}
	fmt.Fprintf(&b, "-%0*d", padWidth, num)
	return b.String()
}
