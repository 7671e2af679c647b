package handler

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"insurance-analytics/internal/export"
	"insurance-analytics/internal/model"
)

// Reporter is the part of engine.Service the HTTP layer needs.
type Reporter interface {
	Run(ctx context.Context, params model.ReportParams) (*model.ReportResponse, error)
	Dashboard(ctx context.Context) (*model.ReportResponse, error)
}

type Handler struct {
	reporter Reporter
	logger   *zap.Logger
	metrics  fasthttp.RequestHandler
	health   func(context.Context) error
	now      func() time.Time
}

type Option func(*Handler)

// WithHealthCheck makes /healthz report 503 while check fails.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(h *Handler) { h.health = check }
}

const healthTimeout = 2 * time.Second

func New(reporter Reporter, gatherer prometheus.Gatherer, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
	if gatherer != nil {
		h.metrics = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle routes one request. Reports run under a context derived from the
// request: it ends when the handler returns or the server shuts down.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	switch string(ctx.Path()) {
	case "/reports":
		h.handleReport(rctx, ctx)
	case "/reports/export":
		h.handleExport(rctx, ctx)
	case "/dashboard":
		h.handleDashboard(rctx, ctx)
	case "/healthz":
		h.handleHealth(rctx, ctx)
	case "/metrics":
		if h.metrics == nil {
			writeError(ctx, fasthttp.StatusNotFound, "Not found", "")
			return
		}
		h.metrics(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found", "")
	}
}

func (h *Handler) handleHealth(rctx context.Context, ctx *fasthttp.RequestCtx) {
	if h.health != nil {
		checkCtx, cancel := context.WithTimeout(rctx, healthTimeout)
		defer cancel()
		if err := h.health(checkCtx); err != nil {
			h.logger.Error("health check failed", zap.Error(err))
			writeError(ctx, fasthttp.StatusServiceUnavailable, "Record store unavailable", "")
			return
		}
	}
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("ok")
}

func (h *Handler) handleReport(rctx context.Context, ctx *fasthttp.RequestCtx) {
	resp, err := h.reporter.Run(rctx, paramsFrom(ctx.QueryArgs()))
	if err != nil {
		h.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleDashboard(rctx context.Context, ctx *fasthttp.RequestCtx) {
	resp, err := h.reporter.Dashboard(rctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleExport(rctx context.Context, ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	if _, err := export.ParseFormat(string(args.Peek("format"))); err != nil {
		h.fail(ctx, err)
		return
	}
	params := paramsFrom(args)
	if err := export.CheckKind(params.Type); err != nil {
		h.fail(ctx, err)
		return
	}

	resp, err := h.reporter.Run(rctx, params)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	table, err := export.Build(resp.Metadata.ReportKind, resp.Result)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("text/csv")
	ctx.Response.Header.Set("Content-Disposition",
		`attachment; filename="`+table.Filename(model.Date{Time: h.now().UTC()})+`"`)
	if err := table.WriteCSV(ctx); err != nil {
		h.fail(ctx, err)
	}
}

func paramsFrom(args *fasthttp.Args) model.ReportParams {
	return model.ReportParams{
		Type:        string(args.Peek("type")),
		StartDate:   string(args.Peek("start_date")),
		EndDate:     string(args.Peek("end_date")),
		ProductID:   string(args.Peek("product_id")),
		RegionID:    string(args.Peek("region_id")),
		PaymentType: string(args.Peek("payment_type")),
		Scenario:    string(args.Peek("scenario")),
	}
}

// fail maps typed errors onto status codes and logs anything server-side.
func (h *Handler) fail(ctx *fasthttp.RequestCtx, err error) {
	var (
		verr *model.ValidationError
		cerr *model.ComputationError
	)
	switch {
	case errors.As(err, &verr):
		writeError(ctx, fasthttp.StatusBadRequest, verr.Error(), verr.Field)
	case errors.As(err, &cerr):
		writeError(ctx, fasthttp.StatusUnprocessableEntity, cerr.Error(), "")
	case errors.Is(err, model.ErrTimeout):
		h.logger.Error("report timed out", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		writeError(ctx, fasthttp.StatusGatewayTimeout, err.Error(), "")
	default:
		h.logger.Error("report failed", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error", "")
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response", "")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message, field string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
		Field:   field,
	})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
