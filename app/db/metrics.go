package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-quora-api/app/observability/metrics"
)

var _ PGX = (*instrumentedPGX)(nil)

// WithMetrics wraps db so every statement feeds the query duration histogram
// and the error counter. Begin passes through untouched; statements inside a
// transaction scope are covered by the caller's span.
func WithMetrics(db PGX) PGX {
	metrics.InitAppMetrics()
	return &instrumentedPGX{db: db, metrics: metrics.Get()}
}

type instrumentedPGX struct {
	db      PGX
	metrics *metrics.AppMetrics
}

// observe records the statement duration and counts failures. pgx.ErrNoRows
// is a domain miss, not a database error, and stays out of the error counter.
func (p *instrumentedPGX) observe(ctx context.Context, start time.Time, err error) {
	p.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		p.metrics.DbQueryErrorsTotal.Add(ctx, 1)
	}
}

func (p *instrumentedPGX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := p.db.Exec(ctx, sql, arguments...)
	p.observe(ctx, start, err)
	return tag, err
}

func (p *instrumentedPGX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := p.db.Query(ctx, sql, args...)
	p.observe(ctx, start, err)
	return rows, err
}

func (p *instrumentedPGX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &instrumentedRow{
		row:   p.db.QueryRow(ctx, sql, args...),
		pgx:   p,
		ctx:   ctx,
		start: time.Now(),
	}
}

func (p *instrumentedPGX) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.db.Begin(ctx)
}

// instrumentedRow defers observation to Scan, where a row query actually
// completes and surfaces its error.
type instrumentedRow struct {
	row   pgx.Row
	pgx   *instrumentedPGX
	ctx   context.Context
	start time.Time
}

func (r *instrumentedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.pgx.observe(r.ctx, r.start, err)
	return err
}
