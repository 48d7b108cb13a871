package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/kurochkinivan/iot_center/internal/cache"
	"github.com/kurochkinivan/iot_center/internal/config"
	v1 "github.com/kurochkinivan/iot_center/internal/controller/http/v1"
	"github.com/kurochkinivan/iot_center/internal/importer"
	"github.com/kurochkinivan/iot_center/internal/infrastructure/report_generator"
	"github.com/kurochkinivan/iot_center/internal/metrics"
	"github.com/kurochkinivan/iot_center/internal/repository/postgresql"
	"github.com/kurochkinivan/iot_center/internal/service"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	log *slog.Logger
	cfg *config.Config
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting app",
		slog.String("tx_isolation", a.cfg.Tx.Isolation),
		slog.Int("tx_retries", a.cfg.Tx.Retries),
		slog.Int("cache_size", a.cfg.Cache.Size),
	)

	txOptions, err := a.txOptions()
	if err != nil {
		return fmt.Errorf("invalid transaction settings: %w", err)
	}

	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer pool.Close()

	registry := metrics.NewRegistry()
	txManager := postgresql.NewTxManager(pool, a.log, txOptions, registry)

	groupsRepository := postgresql.NewGroupsRepository(pool, txManager)
	devicesRepository := postgresql.NewDevicesRepository(pool, txManager)
	sensorsRepository := postgresql.NewSensorsRepository(pool, txManager)
	configsRepository := postgresql.NewMBRTURepository(pool)

	var groupsCache service.Cache
	if a.cfg.Cache.Size > 0 {
		groupsCache = cache.New(a.cfg.Cache.Size, a.cfg.Cache.TTL, registry)
	}

	services := v1.Services{
		Groups: service.NewGroupService(a.log, groupsRepository, txManager, groupsCache),
		Devices: service.NewDeviceService(
			a.log,
			devicesRepository,
			groupsRepository,
			sensorsRepository,
			configsRepository,
			txManager,
			report_generator.New(),
			registry,
		),
		Sensors: service.NewSensorService(
			a.log,
			sensorsRepository,
			devicesRepository,
			configsRepository,
			txManager,
			importer.NewSensorDecoder(a.log, importer.DefaultMaxRows),
			registry,
		),
		Configs: service.NewConfigService(
			a.log,
			configsRepository,
			devicesRepository,
			sensorsRepository,
			txManager,
			registry,
		),
		Health: txManager,
	}

	return a.serve(ctx, v1.NewServer(a.cfg.HTTP, a.log, services, registry))
}

func (a *App) txOptions() (postgresql.TxOptions, error) {
	opts := postgresql.DefaultTxOptions()

	level, err := postgresql.ParseIsoLevel(a.cfg.Tx.Isolation)
	if err != nil {
		return opts, err
	}
	opts.IsoLevel = level

	if a.cfg.Tx.Timeout > 0 {
		opts.Timeout = a.cfg.Tx.Timeout
	}
	if a.cfg.Tx.Retries > 0 {
		opts.Retries = a.cfg.Tx.Retries
	}
	if a.cfg.Tx.RetryDelay > 0 {
		opts.RetryDelay = a.cfg.Tx.RetryDelay
	}

	return opts, nil
}

func (a *App) serve(ctx context.Context, server *v1.Server) error {
	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server",
			slog.String("addr", net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port)),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "server stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, "server stopped gracefully")

	return nil
}
