package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"insurance-analytics/internal/metrics"
	"insurance-analytics/internal/model"
	"insurance-analytics/internal/reports"
	"insurance-analytics/internal/store"
)

const DefaultFetchTimeout = 30 * time.Second

const kindDashboard = "dashboard"

// openStatuses are the claims still carrying a reserve.
var openStatuses = []model.ClaimStatus{model.ClaimOpen, model.ClaimProcessing}

// Service produces reports from a record source. Report arithmetic is pure;
// only the fetch step blocks and it is bounded by FetchTimeout.
type Service struct {
	source       store.RecordSource
	fetchTimeout time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Service)

func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(source store.RecordSource, opts ...Option) *Service {
	s := &Service{
		source:       source,
		fetchTimeout: DefaultFetchTimeout,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run parses raw parameters and generates the report.
func (s *Service) Run(ctx context.Context, params model.ReportParams) (*model.ReportResponse, error) {
	req, err := ParseRequest(params)
	if err != nil {
		s.logger.Debug("report rejected", zap.String("type", params.Type), zap.Error(err))
		return nil, err
	}
	return s.Generate(ctx, req)
}

func (s *Service) Generate(ctx context.Context, req Request) (*model.ReportResponse, error) {
	start := s.now()
	kind := string(req.Kind())

	result, msgs, err := s.compute(ctx, req)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.Observe(kind, outcomeLabel(err), elapsed)
		s.logger.Warn("report failed", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	resp := s.envelope(kind, start, elapsed, result, msgs)
	s.metrics.Observe(kind, resp.Metadata.ReportOutcome, elapsed)
	s.logger.Debug("report generated",
		zap.String("kind", kind),
		zap.String("report_id", resp.Metadata.ReportID),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}

func (s *Service) compute(ctx context.Context, req Request) (any, []model.ReportMessage, error) {
	switch r := req.(type) {
	case CashFlowRequest:
		records, err := s.records(ctx, r.Filter)
		if err != nil {
			return nil, nil, err
		}
		return reports.CashFlow(reports.FilterRecords(records, r.Filter)), nil, nil

	case LossRatioRequest:
		records, err := s.records(ctx, r.Filter)
		if err != nil {
			return nil, nil, err
		}
		return reports.LossRatio(reports.FilterRecords(records, r.Filter)), nil, nil

	case ReservesRequest:
		var snapshots []model.ReserveSnapshot
		err := s.fetch(ctx, "fetch reserve snapshots", func(ctx context.Context) (err error) {
			snapshots, err = s.source.ReserveSnapshots(ctx, store.SnapshotQuery{From: r.From, To: r.To, ProductID: r.ProductID})
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		return reports.Reserves(snapshots, r.From, r.To, r.ProductID), nil, nil

	case ForecastRequest:
		history := r.Filter
		history.Start = reports.HistoryStart(r.Filter.Start)
		records, err := s.records(ctx, history)
		if err != nil {
			return nil, nil, err
		}
		result := reports.Forecast(reports.FilterRecords(records, history), r.Filter.Start, r.Filter.End)
		var msgs []model.ReportMessage
		if len(result.Historical) == 0 {
			msgs = append(msgs, model.ReportMessage{
				Level:   model.LevelWarning,
				Code:    model.CodeInsufficientHistory,
				Message: result.Message,
			})
		}
		return result, msgs, nil

	case StressTestRequest:
		return s.stressTest(ctx, r)
	}
	return nil, nil, fmt.Errorf("unsupported report request %T", req)
}

func (s *Service) stressTest(ctx context.Context, r StressTestRequest) (any, []model.ReportMessage, error) {
	premium := model.PaymentPremium
	var premiums []model.FinancialRecord
	var claims []model.Claim

	err := s.fetch(ctx, "fetch stress test inputs", func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			premiums, err = s.source.FinancialRecords(ctx, store.RecordQuery{PaymentKind: &premium})
			return err
		})
		g.Go(func() (err error) {
			claims, err = s.source.Claims(ctx, store.ClaimQuery{ProductID: r.ProductID})
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := reports.StressTest(premiums, claims, r.Scenario)
	if err != nil {
		return nil, nil, err
	}
	var msgs []model.ReportMessage
	if _, known := reports.StressFactor(r.Scenario); !known {
		msgs = append(msgs, model.ReportMessage{
			Level:   model.LevelWarning,
			Code:    model.CodeUnknownScenario,
			Message: fmt.Sprintf("Unknown scenario %q, using the %s multiplier", r.Scenario, reports.DefaultScenario),
		})
	}
	return result, msgs, nil
}

// Dashboard fetches the portfolio inputs concurrently and summarizes them.
func (s *Service) Dashboard(ctx context.Context) (*model.ReportResponse, error) {
	start := s.now()
	var (
		records   []model.FinancialRecord
		claims    []model.Claim
		snapshots []model.ReserveSnapshot
		policies  int64
	)
	err := s.fetch(ctx, "fetch dashboard inputs", func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			records, err = s.source.FinancialRecords(ctx, store.RecordQuery{})
			return err
		})
		g.Go(func() (err error) {
			claims, err = s.source.Claims(ctx, store.ClaimQuery{Statuses: openStatuses})
			return err
		})
		g.Go(func() (err error) {
			snapshots, err = s.source.ReserveSnapshots(ctx, store.SnapshotQuery{})
			return err
		})
		g.Go(func() (err error) {
			policies, err = s.source.PolicyCount(ctx)
			return err
		})
		return g.Wait()
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.Observe(kindDashboard, outcomeLabel(err), elapsed)
		s.logger.Warn("dashboard failed", zap.Error(err))
		return nil, err
	}

	resp := s.envelope(kindDashboard, start, elapsed, reports.Dashboard(records, claims, snapshots, policies), nil)
	s.metrics.Observe(kindDashboard, resp.Metadata.ReportOutcome, elapsed)
	return resp, nil
}

func (s *Service) records(ctx context.Context, f reports.RecordFilter) ([]model.FinancialRecord, error) {
	var out []model.FinancialRecord
	err := s.fetch(ctx, "fetch financial records", func(ctx context.Context) (err error) {
		out, err = s.source.FinancialRecords(ctx, store.RecordQuery{
			From:        f.Start,
			To:          f.End,
			ProductID:   f.ProductID,
			RegionID:    f.RegionID,
			PaymentKind: f.PaymentKind,
		})
		return err
	})
	return out, err
}

// fetch runs fn under the fetch deadline. Hitting the deadline yields a
// TimeoutError and no partial result.
func (s *Service) fetch(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &model.TimeoutError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) envelope(kind string, start time.Time, elapsed time.Duration, result any, msgs []model.ReportMessage) *model.ReportResponse {
	if msgs == nil {
		msgs = []model.ReportMessage{}
	}
	outcome := model.OutcomeSuccess
	if f, ok := result.(model.ForecastResult); ok && len(f.Historical) == 0 {
		outcome = model.OutcomeEmpty
	}
	completed := start.Add(elapsed).UTC()
	return &model.ReportResponse{
		Metadata: model.ReportMetadata{
			ReportID:          uuid.New().String(),
			ReportKind:        kind,
			ReportStartedAt:   start.UTC().Format(time.RFC3339),
			ReportCompletedAt: completed.Format(time.RFC3339),
			ReportDurationMs:  elapsed.Milliseconds(),
			ReportOutcome:     outcome,
		},
		Messages: msgs,
		Result:   result,
	}
}

func outcomeLabel(err error) string {
	var verr *model.ValidationError
	var cerr *model.ComputationError
	switch {
	case errors.As(err, &verr):
		return "validation_error"
	case errors.As(err, &cerr):
		return "computation_error"
	case errors.Is(err, model.ErrTimeout):
		return "timeout"
	}
	return "error"
}
