package cli

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"insurance-analytics/internal/export"
	"insurance-analytics/internal/model"
)

type reportOptions struct {
	params model.ReportParams
	format string
}

func reportCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	ro := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a single report and print it",
		Long: `Generate a single report and print it to stdout.

Examples:
  insurance-analytics report --type cashflow --start 2024-01-01 --end 2024-03-31
  insurance-analytics report --type forecast --start 2024-01-01 --end 2024-12-31 --payment-type premium
  insurance-analytics report --type stress_test --scenario extreme
  insurance-analytics report --type loss_ratio --start 2024-01-01 --end 2024-12-31 --format csv
  insurance-analytics report --type dashboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return runReport(ctx, a, ro, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&ro.params.Type, "type", "", "report type (cashflow|reserves|loss_ratio|forecast|stress_test|dashboard)")
	f.StringVar(&ro.params.StartDate, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&ro.params.EndDate, "end", "", "end date, YYYY-MM-DD")
	f.StringVar(&ro.params.ProductID, "product", "", "product id filter")
	f.StringVar(&ro.params.RegionID, "region", "", "region id filter")
	f.StringVar(&ro.params.PaymentType, "payment-type", "", "payment type filter (premium|claim|commission)")
	f.StringVar(&ro.params.Scenario, "scenario", "", "stress scenario (low|medium|high|extreme)")
	f.StringVar(&ro.format, "format", "json", "output format (json|csv)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runReport(ctx context.Context, a *app, ro *reportOptions, out io.Writer) error {
	if ro.format == export.FormatCSV {
		if err := export.CheckKind(ro.params.Type); err != nil {
			return err
		}
	} else if ro.format != "json" {
		return model.Invalid("format", "unsupported output format %q", ro.format)
	}

	var (
		resp *model.ReportResponse
		err  error
	)
	if ro.params.Type == "dashboard" {
		resp, err = a.service.Dashboard(ctx)
	} else {
		resp, err = a.service.Run(ctx, ro.params)
	}
	if err != nil {
		return err
	}

	if ro.format == export.FormatCSV {
		table, err := export.Build(resp.Metadata.ReportKind, resp.Result)
		if err != nil {
			return err
		}
		return table.WriteCSV(out)
	}

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
