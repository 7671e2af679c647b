package memory

import (
	"context"
	"fmt"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"insurance-analytics/internal/model"
	"insurance-analytics/internal/reports"
	"insurance-analytics/internal/store"
)

// Dataset is a full export of the reporting tables.
type Dataset struct {
	Products  []model.Product         `json:"products"`
	Regions   []model.Region          `json:"regions"`
	Policies  []model.Policy          `json:"policies"`
	Records   []model.FinancialRecord `json:"payment_flows"`
	Claims    []model.Claim           `json:"claims"`
	Snapshots []model.ReserveSnapshot `json:"reserve_calculations"`
}

// Store serves a Dataset from memory. It is never mutated after New, so
// concurrent readers need no locking.
type Store struct {
	data Dataset
}

var _ store.RecordSource = (*Store)(nil)

// New resolves product names and claim products from the reference tables
// and orders every collection by date.
func New(data Dataset) (*Store, error) {
	products := make(map[int64]string, len(data.Products))
	for _, p := range data.Products {
		products[p.ID] = p.Name
	}
	policies := make(map[int64]int64, len(data.Policies))
	for _, p := range data.Policies {
		policies[p.ID] = p.ProductID
	}

	records := make([]model.FinancialRecord, len(data.Records))
	copy(records, data.Records)
	for i := range records {
		r := &records[i]
		if r.ExpectedAmount.IsNegative() {
			return nil, fmt.Errorf("payment flow %d: negative expected amount %s", r.ID, r.ExpectedAmount)
		}
		if name, ok := products[r.ProductID]; ok && r.ProductName == "" {
			r.ProductName = name
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date.Time) })

	claims := make([]model.Claim, len(data.Claims))
	copy(claims, data.Claims)
	for i := range claims {
		c := &claims[i]
		if c.ReportDate.Before(c.EventDate.Time) {
			return nil, fmt.Errorf("claim %s: report date %s before event date %s", c.ClaimNumber, c.ReportDate, c.EventDate)
		}
		if c.PaidAmount.Valid && c.Status != model.ClaimPaid {
			return nil, fmt.Errorf("claim %s: paid amount set on %s claim", c.ClaimNumber, c.Status)
		}
		if productID, ok := policies[c.PolicyID]; ok && c.ProductID == 0 {
			c.ProductID = productID
		}
	}

	snapshots := make([]model.ReserveSnapshot, len(data.Snapshots))
	copy(snapshots, data.Snapshots)
	for i := range snapshots {
		if name, ok := products[snapshots[i].ProductID]; ok && snapshots[i].ProductName == "" {
			snapshots[i].ProductName = name
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CalculationDate.Before(snapshots[j].CalculationDate.Time)
	})

	data.Records, data.Claims, data.Snapshots = records, claims, snapshots
	return &Store{data: data}, nil
}

// Load reads a JSON dataset from disk.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var data Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return New(data)
}

func (s *Store) FinancialRecords(ctx context.Context, q store.RecordQuery) ([]model.FinancialRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports.FilterRecords(s.data.Records, reports.RecordFilter{
		Start:       q.From,
		End:         q.To,
		ProductID:   q.ProductID,
		RegionID:    q.RegionID,
		PaymentKind: q.PaymentKind,
	}), nil
}

func (s *Store) Claims(ctx context.Context, q store.ClaimQuery) ([]model.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Claim, 0, len(s.data.Claims))
	for _, c := range s.data.Claims {
		if q.ProductID != nil && c.ProductID != *q.ProductID {
			continue
		}
		if len(q.Statuses) > 0 && !hasStatus(q.Statuses, c.Status) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) ReserveSnapshots(ctx context.Context, q store.SnapshotQuery) ([]model.ReserveSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.ReserveSnapshot, 0, len(s.data.Snapshots))
	for _, sn := range s.data.Snapshots {
		if !q.From.IsZero() && sn.CalculationDate.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && sn.CalculationDate.After(q.To) {
			continue
		}
		if q.ProductID != nil && sn.ProductID != *q.ProductID {
			continue
		}
		out = append(out, sn)
	}
	return out, nil
}

func (s *Store) PolicyCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.data.Policies)), nil
}

func hasStatus(statuses []model.ClaimStatus, s model.ClaimStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
