package store

import (
	"context"
	"time"

	"insurance-analytics/internal/model"
)

// RecordQuery selects financial records. Zero times and nil pointers mean
// the bound or filter is not applied.
type RecordQuery struct {
	From        time.Time
	To          time.Time
	ProductID   *int64
	RegionID    *int64
	PaymentKind *model.PaymentKind
}

type ClaimQuery struct {
	ProductID *int64
	Statuses  []model.ClaimStatus
}

type SnapshotQuery struct {
	From      time.Time
	To        time.Time
	ProductID *int64
}

// RecordSource is the read-only view of the record store the report engine
// consumes. Implementations own persistence.
type RecordSource interface {
	FinancialRecords(ctx context.Context, q RecordQuery) ([]model.FinancialRecord, error)
	Claims(ctx context.Context, q ClaimQuery) ([]model.Claim, error)
	ReserveSnapshots(ctx context.Context, q SnapshotQuery) ([]model.ReserveSnapshot, error)
	PolicyCount(ctx context.Context) (int64, error)
}
