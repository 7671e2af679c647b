// Package cli wires configuration, storage and the report engine behind the
// insurance-analytics commands.
package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"insurance-analytics/internal/config"
	"insurance-analytics/internal/engine"
	"insurance-analytics/internal/logger"
	"insurance-analytics/internal/metrics"
	"insurance-analytics/internal/store"
	"insurance-analytics/internal/store/memory"
	"insurance-analytics/internal/store/postgres"
)

type rootOptions struct {
	configPath string
	envOnly    bool
}

func Execute(ctx context.Context) error {
	return NewRootCommand(ctx).Execute()
}

func NewRootCommand(ctx context.Context) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "insurance-analytics",
		Short:         "Financial reporting for an insurance portfolio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVar(&opts.envOnly, "env-only", false, "ignore the config file and read IA_* environment variables only")

	root.AddCommand(serveCmd(ctx, opts))
	root.AddCommand(reportCmd(ctx, opts))
	return root
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	service  *engine.Service
	health   func(context.Context) error
	closers  []func() error
}

func bootstrap(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath, opts.envOnly)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log, registry: prometheus.NewRegistry()}
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	source, err := a.openSource(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.service = engine.NewService(source,
		engine.WithFetchTimeout(cfg.Reports.FetchTimeout),
		engine.WithLogger(log.Named("engine")),
		engine.WithMetrics(metrics.New(a.registry)),
	)
	return a, nil
}

func (a *app) openSource(ctx context.Context) (store.RecordSource, error) {
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:             a.cfg.DB.DSN,
			MaxOpenConns:    a.cfg.DB.MaxOpenConns,
			MaxIdleConns:    a.cfg.DB.MaxIdleConns,
			ConnMaxLifetime: a.cfg.DB.ConnMaxLifetime,
			ConnMaxIdleTime: a.cfg.DB.ConnMaxIdleTime,
			QueryTimeout:    a.cfg.DB.QueryTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.health = db.Ping
		a.logger.Info("using postgres record store")
		return db, nil
	default:
		src, err := memory.Load(a.cfg.Store.DatasetPath)
		if err != nil {
			return nil, err
		}
		a.logger.Info("using in-memory record store", zap.String("dataset", a.cfg.Store.DatasetPath))
		return src, nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
}
