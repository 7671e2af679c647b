package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"insurance-analytics/internal/model"
	"insurance-analytics/internal/store"
)

// Config holds database connection configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// DefaultConfig returns reasonable defaults for database connections.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    30 * time.Second,
	}
}

// Store reads the reporting schema. It never writes.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

var _ store.RecordSource = (*Store)(nil)

// Open connects and pings the database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db, cfg.QueryTimeout), nil
}

func New(db *sqlx.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultConfig().QueryTimeout
	}
	return &Store{db: db, timeout: timeout}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const recordsQuery = `
	SELECT pf.id, pf.date, pf.payment_type, pf.expected_amount, pf.actual_amount,
	       pf.is_recurring, pf.product_id, p.name AS product_name, pf.region_id, pf.policy_id
	FROM reports_paymentflow pf
	JOIN reports_insuranceproduct p ON p.id = pf.product_id`

func (s *Store) FinancialRecords(ctx context.Context, q store.RecordQuery) ([]model.FinancialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var w where
	if !q.From.IsZero() {
		w.add("pf.date >= ?", q.From)
	}
	if !q.To.IsZero() {
		w.add("pf.date <= ?", q.To)
	}
	if q.ProductID != nil {
		w.add("pf.product_id = ?", *q.ProductID)
	}
	if q.RegionID != nil {
		w.add("pf.region_id = ?", *q.RegionID)
	}
	if q.PaymentKind != nil {
		w.add("pf.payment_type = ?", string(*q.PaymentKind))
	}

	var out []model.FinancialRecord
	if err := s.db.SelectContext(ctx, &out, w.build(recordsQuery, "pf.date, pf.id"), w.args...); err != nil {
		return nil, wrap("list payment flows", err)
	}
	return out, nil
}

const claimsQuery = `
	SELECT c.id, c.claim_number, c.event_date, c.report_date, c.status, c.estimated_amount,
	       c.paid_amount, c.reserve, c.is_catastrophic, c.policy_id, pol.product_id
	FROM reports_insuranceclaim c
	JOIN reports_policy pol ON pol.id = c.policy_id`

func (s *Store) Claims(ctx context.Context, q store.ClaimQuery) ([]model.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var w where
	if q.ProductID != nil {
		w.add("pol.product_id = ?", *q.ProductID)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		w.add("c.status = ANY(?)", pq.Array(statuses))
	}

	var out []model.Claim
	if err := s.db.SelectContext(ctx, &out, w.build(claimsQuery, "c.event_date, c.id"), w.args...); err != nil {
		return nil, wrap("list claims", err)
	}
	return out, nil
}

const snapshotsQuery = `
	SELECT r.id, r.product_id, p.name AS product_name, r.calculation_date, r.total_reserves,
	       r.required_reserves, r.available_reserves, r.stress_scenario
	FROM reports_reservecalculation r
	JOIN reports_insuranceproduct p ON p.id = r.product_id`

func (s *Store) ReserveSnapshots(ctx context.Context, q store.SnapshotQuery) ([]model.ReserveSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var w where
	if !q.From.IsZero() {
		w.add("r.calculation_date >= ?", q.From)
	}
	if !q.To.IsZero() {
		w.add("r.calculation_date <= ?", q.To)
	}
	if q.ProductID != nil {
		w.add("r.product_id = ?", *q.ProductID)
	}

	var out []model.ReserveSnapshot
	if err := s.db.SelectContext(ctx, &out, w.build(snapshotsQuery, "r.calculation_date, r.id"), w.args...); err != nil {
		return nil, wrap("list reserve calculations", err)
	}
	return out, nil
}

func (s *Store) PolicyCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reports_policy`); err != nil {
		return 0, wrap("count policies", err)
	}
	return n, nil
}

// where accumulates AND-ed conditions written with ? placeholders.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *where) build(base, orderBy string) string {
	var b strings.Builder
	b.WriteString(base)
	if len(w.conds) > 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(w.conds, " AND "))
	}
	b.WriteString("\n\tORDER BY ")
	b.WriteString(orderBy)
	return sqlx.Rebind(sqlx.DOLLAR, b.String())
}

func wrap(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s: postgres %s (%s): %w", op, pqErr.Code, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
