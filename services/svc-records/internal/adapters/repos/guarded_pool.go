package repos

import (
	"context"
	"errors"

	"github.com/architeacher/records/pkg/circuitbreaker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// GuardedPool routes store calls through a circuit breaker so an unavailable
// database fails fast instead of piling up requests.
type GuardedPool struct {
	pool    PoolOps
	breaker *circuitbreaker.CircuitBreaker[any]
}

func NewGuardedPool(pool PoolOps, cfg circuitbreaker.Config) *GuardedPool {
	cfg.IsSuccessful = IsStoreHealthy

	return &GuardedPool{
		pool:    pool,
		breaker: circuitbreaker.New[any](cfg),
	}
}

// QueryRow is not guarded; its error only surfaces on Scan.
func (p *GuardedPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *GuardedPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	result, err := circuitbreaker.Execute(p.breaker, func() (any, error) {
		return p.pool.Query(ctx, sql, args...)
	})
	if err != nil {
		return nil, err
	}

	return result.(pgx.Rows), nil
}

func (p *GuardedPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	result, err := circuitbreaker.Execute(p.breaker, func() (any, error) {
		return p.pool.Exec(ctx, sql, args...)
	})
	if err != nil {
		return pgconn.CommandTag{}, err
	}

	return result.(pgconn.CommandTag), nil
}

func (p *GuardedPool) Ping(ctx context.Context) error {
	_, err := circuitbreaker.Execute(p.breaker, func() (any, error) {
		return nil, p.pool.Ping(ctx)
	})

	return err
}

// IsStoreHealthy reports whether err leaves the database itself healthy: missing
// rows, constraint violations, bad input and caller cancellation do not trip the breaker.
func IsStoreHealthy(err error) bool {
	if err == nil || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return false
	}

	switch pgErr.Code[:2] {
	case "22", "23", "42":
		return true
	default:
		return false
	}
}
