package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-analytics/internal/model"
	"insurance-analytics/internal/store"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Load("testdata/dataset.json")
	require.NoError(t, err)
	return s
}

func TestLoadResolvesReferences(t *testing.T) {
	s := loadFixture(t)
	ctx := context.Background()

	records, err := s.FinancialRecords(ctx, store.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2024-01-01", records[0].Date.String(), "records are ordered by date")
	assert.Equal(t, "Auto", records[0].ProductName)
	assert.Equal(t, "Home", records[1].ProductName)
	assert.False(t, records[1].ActualAmount.Valid)
	assert.Nil(t, records[1].RegionID)
	assert.True(t, records[0].ExpectedAmount.Equal(decimal.RequireFromString("500")))

	claims, err := s.Claims(ctx, store.ClaimQuery{})
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, int64(1), claims[0].ProductID, "claim product comes from its policy")
	assert.Equal(t, int64(2), claims[1].ProductID)

	snapshots, err := s.ReserveSnapshots(ctx, store.SnapshotQuery{})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "Home", snapshots[1].ProductName)

	count, err := s.PolicyCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestQueries(t *testing.T) {
	s := loadFixture(t)
	ctx := context.Background()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	premium := model.PaymentPremium
	records, err := s.FinancialRecords(ctx, store.RecordQuery{From: from, To: to, PaymentKind: &premium})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	region := int64(10)
	records, err = s.FinancialRecords(ctx, store.RecordQuery{RegionID: &region})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	product := int64(2)
	claims, err := s.Claims(ctx, store.ClaimQuery{ProductID: &product})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "CLM-2", claims[0].ClaimNumber)

	claims, err = s.Claims(ctx, store.ClaimQuery{Statuses: []model.ClaimStatus{model.ClaimPaid}})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "CLM-1", claims[0].ClaimNumber)

	snapshots, err := s.ReserveSnapshots(ctx, store.SnapshotQuery{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, int64(1), snapshots[0].ProductID)
}

func TestCancelledContext(t *testing.T) {
	s := loadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FinancialRecords(ctx, store.RecordQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidData(t *testing.T) {
	_, err := New(Dataset{Records: []model.FinancialRecord{{ID: 1, ExpectedAmount: decimal.NewFromInt(-1)}}})
	assert.ErrorContains(t, err, "negative expected amount")

	_, err = New(Dataset{Claims: []model.Claim{{
		ClaimNumber: "CLM-9",
		EventDate:   model.NewDate(2024, 2, 1),
		ReportDate:  model.NewDate(2024, 1, 1),
	}}})
	assert.ErrorContains(t, err, "before event date")

	_, err = New(Dataset{Claims: []model.Claim{{
		ClaimNumber: "CLM-10",
		Status:      model.ClaimOpen,
		PaidAmount:  decimal.NewNullDecimal(decimal.NewFromInt(5)),
	}}})
	assert.ErrorContains(t, err, "paid amount")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.json")
	assert.ErrorContains(t, err, "read dataset")
}
