package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"insurance-analytics/internal/handler"
)

func serveCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Long: `Serve reports over HTTP.

Routes:
  GET /reports?type=cashflow&start_date=2024-01-01&end_date=2024-03-31
  GET /reports/export?type=loss_ratio&format=csv&start_date=...&end_date=...
  GET /dashboard
  GET /healthz
  GET /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	var opts []handler.Option
	if a.health != nil {
		opts = append(opts, handler.WithHealthCheck(a.health))
	}
	h := handler.New(a.service, a.registry, a.logger.Named("http"), opts...)
	srv := &fasthttp.Server{
		Handler:      h.Handle,
		Name:         "insurance-analytics",
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("insurance analytics listening", zap.String("addr", a.cfg.Server.HTTPAddr))
		errCh <- srv.ListenAndServe(a.cfg.Server.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
