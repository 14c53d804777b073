package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bizcore/internal/adapters/cache"
	"github.com/SscSPs/bizcore/internal/adapters/database/memory"
	"github.com/SscSPs/bizcore/internal/adapters/database/pgsql"
	"github.com/SscSPs/bizcore/internal/adapters/notify"
	"github.com/SscSPs/bizcore/internal/clock"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/core/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/handlers"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/SscSPs/bizcore/internal/platform/config"
	"github.com/SscSPs/bizcore/internal/platform/idgen"
	"github.com/SscSPs/bizcore/internal/scheduler"
	"github.com/SscSPs/bizcore/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, wallet, cleanup, err := openStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	tracker, closeTracker, err := openCooldownTracker(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeTracker()

	ids, err := idgen.NewSnowflake(cfg.SnowflakeNode)
	if err != nil {
		return err
	}

	clk := clock.Real()
	reg := registry.New(repos.BusinessRepo, registry.WithClock(clk))
	if err := reg.Load(ctx); err != nil {
		return fmt.Errorf("load business registry: %w", err)
	}

	svc := services.NewServiceContainer(reg, repos, services.ContainerConfig{
		Wallet:    wallet,
		HiringTTL: cfg.HiringRequestTTL,
		Revenue: services.RevenueConfig{
			Cooldown: cfg.RevenueCooldown,
			Tracker:  tracker,
		},
		SharedOpts: []services.ServiceOption{
			services.WithClock(clk),
			services.WithIDGenerator(ids),
			services.WithNotifier(notify.NewLogNotifier(nil)),
			services.WithAdmins(cfg.AdminPlayerIDs...),
		},
	})

	router, err := newRouter(logger, cfg, svc)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		if sched, err = newScheduler(logger, cfg, clk, ids, svc); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error {
			sched.RunForever(gctx)
			return nil
		})
	} else {
		logger.Info("Scheduler disabled")
	}

	return g.Wait()
}

// openStore selects the persistence backend. The returned cleanup is always safe to call.
func openStore(ctx context.Context, logger *slog.Logger, cfg *config.Config) (portsrepo.RepositoryProvider, portssvc.Wallet, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store; state is lost on restart")
		return memory.NewRepositoryProvider(), memory.NewWallet(), func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, nil, fmt.Errorf("initialize database pool: %w", err)
	}
	if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		database.ClosePgxPool(pool)
		return portsrepo.RepositoryProvider{}, nil, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), pgsql.NewPgxWallet(pool), func() { database.ClosePgxPool(pool) }, nil
}

// openCooldownTracker shares revenue cooldowns through redis when REDIS_URL is set.
func openCooldownTracker(ctx context.Context, logger *slog.Logger, cfg *config.Config) (portssvc.CooldownTracker, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCooldown(), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Revenue cooldowns stored in redis")
	return cache.NewRedisCooldown(client), func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}, nil
}

func newRouter(logger *slog.Logger, cfg *config.Config, svc *portssvc.ServiceContainer) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if cfg.MetricsEnabled {
		r.Use(middleware.HTTPMetrics())
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}

	if cfg.MetricsEnabled {
		metrics.Economy()
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handlers.RegisterRoutes(r, cfg, svc, rateLimiter)
	return r, nil
}

func newScheduler(logger *slog.Logger, cfg *config.Config, clk clock.Clock, ids portssvc.IDGenerator, svc *portssvc.ServiceContainer) (*scheduler.Scheduler, error) {
	schedCfg := scheduler.DefaultConfig()
	schedCfg.Warmup = cfg.RevenueWarmup
	schedCfg.JobTimeout = cfg.JobTimeout
	schedCfg.RevenueInterval = cfg.RevenueInterval
	schedCfg.PayrollInterval = cfg.PayrollInterval
	schedCfg.HiringExpiryInterval = cfg.HiringExpiryInterval
	schedCfg.RollupInterval = cfg.RollupInterval
	schedCfg.EnabledJobs = cfg.SchedulerJobs

	return scheduler.New(scheduler.Params{
		Log:     logger,
		Clock:   clk,
		IDs:     ids,
		Revenue: svc.Revenue,
		Payroll: svc.Payroll,
		Hiring:  svc.Hiring,
		Rollups: svc.Reporting,
		Config:  schedCfg,
	})
}
