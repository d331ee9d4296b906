package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/aggregates"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/payments"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime/bus"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type Aggregates struct {
	Catalog  domainagg.CatalogAggregate
	Purchase domainagg.PurchaseAggregate
	Delivery domainagg.DeliveryAggregate
	Platform domainagg.PlatformAggregate
}

type Services struct {
	Auth        services.AuthService
	Marketplace services.MarketplaceService
}

func wireAggregates(db *gorm.DB, log *logger.Logger, r Repos, enforcer *access.Enforcer, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:       db,
		Log:      log,
		Runner:   aggregates.NewGormTxRunner(db),
		Hooks:    aggregates.ChainHooks(aggregates.NewObservabilityHooks(metrics), aggregates.NewLogHooks(log)),
		CASGuard: aggregates.NewCASGuard(db),
	}
	funds := payments.NewLedgerTransferer(r.Accounts, r.Transfers, log)

	return Aggregates{
		Catalog: aggregates.NewCatalogAggregate(aggregates.CatalogAggregateDeps{
			Base:      base,
			Products:  r.Products,
			Sequences: r.Sequences,
			Events:    r.Events,
			Access:    enforcer,
		}),
		Purchase: aggregates.NewPurchaseAggregate(aggregates.PurchaseAggregateDeps{
			Base:      base,
			Products:  r.Products,
			Orders:    r.Orders,
			Sequences: r.Sequences,
			Settings:  r.Settings,
			Events:    r.Events,
			Funds:     funds,
		}),
		Delivery: aggregates.NewDeliveryAggregate(aggregates.DeliveryAggregateDeps{
			Base:     base,
			Orders:   r.Orders,
			Products: r.Products,
			Events:   r.Events,
			Access:   enforcer,
		}),
		Platform: aggregates.NewPlatformAggregate(aggregates.PlatformAggregateDeps{
			Base:     base,
			Settings: r.Settings,
			Events:   r.Events,
			Access:   enforcer,
		}),
	}
}

// seedPlatformOwner records the configured owner on first boot. A stored owner always wins.
func seedPlatformOwner(ctx context.Context, log *logger.Logger, platform domainagg.PlatformAggregate, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("PLATFORM_OWNER must be set")
	}
	seed, err := domain.ParseIdentity(raw)
	if err != nil {
		return fmt.Errorf("PLATFORM_OWNER: %w", err)
	}
	if seed.IsZero() {
		return fmt.Errorf("PLATFORM_OWNER must not be the zero identity")
	}
	owner, err := platform.EnsureOwner(ctx, seed)
	if err != nil {
		return fmt.Errorf("ensure platform owner: %w", err)
	}
	if owner != seed {
		log.Info("Keeping stored platform owner", "owner", owner, "configured", seed)
	}
	return nil
}

func wireServices(cfg Config, log *logger.Logger, r Repos, aggs Aggregates, enforcer *access.Enforcer, eventBus bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Marketplace: services.NewMarketplaceService(services.MarketplaceServiceDeps{
			Log:       log,
			Products:  r.Products,
			Orders:    r.Orders,
			Sequences: r.Sequences,
			Settings:  r.Settings,
			Accounts:  r.Accounts,
			Events:    r.Events,
			Catalog:   aggs.Catalog,
			Purchase:  aggs.Purchase,
			Delivery:  aggs.Delivery,
			Platform:  aggs.Platform,
			Access:    enforcer,
			Bus:       eventBus,
			Metrics:   metrics,
		}),
	}
}
