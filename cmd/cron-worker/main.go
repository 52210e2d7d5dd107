package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/cron"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/orders"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/users"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/metrics"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/migrate"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
)

const lockName = "cron"

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	only := flag.String("job", "", "run only the named job once and exit")
	flag.Parse()

	_ = godotenv.Load()
	bootCtx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	cfg, err := config.Load()
	must(bootCtx, logg, "load config", err)
	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env},
	})

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	must(bootCtx, logg, "bootstrap database", err)
	defer closeQuietly(bootCtx, logg, "database", dbClient.Close)
	must(bootCtx, logg, "run dev migrations", migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient))

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	must(bootCtx, logg, "bootstrap redis", err)
	defer closeQuietly(bootCtx, logg, "redis", redisClient.Close)

	service, err := newService(cfg, logg, dbClient, redisClient)
	must(bootCtx, logg, "build cron service", err)

	ctx, stop := signal.NotifyContext(bootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *only != "":
		ctx = logg.WithField(ctx, "job", *only)
		must(ctx, logg, "run job", service.RunJob(ctx, *only))
	case *once:
		must(ctx, logg, "run cron cycle", service.RunOnce(ctx))
	default:
		if cfg.Cron.MetricsAddr != "" {
			go serveMetrics(ctx, logg, cfg.Cron.MetricsAddr)
		}
		ctx = logg.WithField(ctx, "interval", cfg.Cron.Interval.String())
		logg.Info(ctx, "cron worker started")
		if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
			must(ctx, logg, "cron worker stopped", err)
		}
		logg.Info(ctx, "cron worker stopped")
	}
}

func newService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*cron.Service, error) {
	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return nil, err
	}
	expireJob, err := cron.NewExpirePendingOrdersJob(orderService, cfg.Cron.PendingOrderTTL)
	if err != nil {
		return nil, err
	}
	pruneJob, err := cron.NewPruneUnverifiedUsersJob(users.NewRepository(dbClient.DB()), cfg.Cron.UnverifiedUserTTL)
	if err != nil {
		return nil, err
	}
	lock, err := cron.NewRedisLock(redisClient, lockName, cfg.Cron.LockTTL)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{expireJob, pruneJob},
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
}

// serveMetrics exposes the default registry until ctx ends.
func serveMetrics(ctx context.Context, logg *logger.Logger, addr string) {
	srv := &http.Server{Addr: addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(logg.WithField(ctx, "addr", addr), "cron metrics server failed", err)
	}
}

func must(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "cron-worker: "+step, err)
	os.Exit(1)
}

func closeQuietly(ctx context.Context, logg *logger.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logg.Error(logg.WithField(ctx, "resource", name), "close failed", err)
	}
}
