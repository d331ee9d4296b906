package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/db"
	"github.com/yungbote/marketledger-backend/internal/domain"
	server "github.com/yungbote/marketledger-backend/internal/http"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/platform/envutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime"
	"github.com/yungbote/marketledger-backend/internal/realtime/bus"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Repos      Repos
	Aggregates Aggregates
	Services   Services
	Handlers   Handlers
	Server     *server.Server
	SSEHub     *realtime.SSEHub
	Bus        bus.Bus
	Metrics    *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New builds the logger and config from the environment, then wires the app.
func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	a, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (_ *App, err error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Log: log, Cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Metrics = observability.Init(log)
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.LogMode,
	})

	a.store, err = db.NewService(log, cfg.Database.Driver, cfg.Database.Postgres(), cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err = a.store.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	a.DB = a.store.DB()

	enforcer, err := access.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("init access enforcer: %w", err)
	}

	a.Bus, err = wireBus(log, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.SSEHub = realtime.NewSSEHub(log)

	a.Repos = wireRepos(a.DB, log)
	a.Aggregates = wireAggregates(a.DB, log, a.Repos, enforcer, a.Metrics)
	if err = seedPlatformOwner(ctx, log, a.Aggregates.Platform, cfg.PlatformOwner); err != nil {
		return nil, err
	}
	a.Services = wireServices(cfg, log, a.Repos, a.Aggregates, enforcer, a.Bus, a.Metrics)
	a.Handlers = wireHandlers(log, a.DB, a.Services, a.SSEHub, a.Metrics)
	a.Server = wireServer(cfg, log, a.Services, a.Handlers, a.Metrics)
	return a, nil
}

func wireBus(log *logger.Logger, cfg bus.RedisConfig) (bus.Bus, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		log.Info("REDIS_ADDR not set; using the in-process event bus")
		return bus.NewLocalBus(log), nil
	}
	b, err := bus.NewRedisBus(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, nil
}

// Start subscribes the SSE hub to the event bus and launches the metric
// collectors. Safe to call once; later calls are no-ops.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	err := a.Bus.StartForwarder(ctx, func(ev domain.MarketplaceEvent) {
		for _, msg := range realtime.MessagesFor(ev) {
			a.SSEHub.Broadcast(msg)
		}
	})
	if err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	if a.Metrics != nil {
		if a.store.Driver() == db.DriverPostgres {
			a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		}
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.Redis.Addr)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := net.JoinHostPort("", a.Cfg.Port)
		a.Log.Info("HTTP server listening", "addr", addr)
		return a.Server.Run(gctx, addr)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("Event bus close failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
