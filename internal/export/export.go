// Package export renders report results as flat tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"insurance-analytics/internal/model"
)

const FormatCSV = "csv"

// Table is a header plus rows of already formatted cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ParseFormat defaults to csv; any other format is rejected.
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatCSV, nil
	}
	if f != FormatCSV {
		return "", model.Invalid("format", "unsupported export format %q", format)
	}
	return f, nil
}

// CheckKind rejects report kinds that have no tabular export.
func CheckKind(kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "cashflow", "loss_ratio":
		return nil
	}
	return model.Invalid("type", "report type %q cannot be exported", kind)
}

// Build projects a report result into a Table. Only cash-flow and loss-ratio
// reports are exportable.
func Build(kind string, result any) (Table, error) {
	if err := CheckKind(kind); err != nil {
		return Table{}, err
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "cashflow":
		rows, ok := result.([]model.CashFlowRow)
		if !ok {
			return Table{}, fmt.Errorf("export cashflow: unexpected result %T", result)
		}
		return cashFlowTable(rows), nil
	case "loss_ratio":
		rows, ok := result.([]model.LossRatioRow)
		if !ok {
			return Table{}, fmt.Errorf("export loss_ratio: unexpected result %T", result)
		}
		return lossRatioTable(rows), nil
	}
	return Table{}, fmt.Errorf("export %s: no table layout", kind)
}

func cashFlowTable(rows []model.CashFlowRow) Table {
	t := Table{
		Name:   "cashflow",
		Header: []string{"Date", "Product", "Expected", "Actual", "Difference"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Date.String(),
			r.ProductName,
			money(r.ExpectedAmount),
			nullMoney(r.ActualAmount),
			nullMoney(r.Difference),
		})
	}
	return t
}

func lossRatioTable(rows []model.LossRatioRow) Table {
	t := Table{
		Name:   "loss_ratio",
		Header: []string{"Product", "Year", "Month", "Earned Premium", "Incurred Losses", "Loss Ratio"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ProductName,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			money(r.EarnedPremium),
			money(r.IncurredLosses),
			strconv.FormatFloat(r.LossRatio, 'f', 2, 64),
		})
	}
	return t
}

func money(d decimal.Decimal) string {
	return model.FormatAmount(d)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

// WriteCSV writes the header followed by every row.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Filename is the attachment name for a table exported on the given day.
func (t Table) Filename(day model.Date) string {
	return fmt.Sprintf("%s_report_%s.%s", t.Name, day.Format("20060102"), FormatCSV)
}
