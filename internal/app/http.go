package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/marketledger-backend/internal/http/handlers"
	httpMW "github.com/yungbote/marketledger-backend/internal/http/middleware"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime"

	server "github.com/yungbote/marketledger-backend/internal/http"
)

type Handlers struct {
	Product  *httpH.ProductHandler
	Order    *httpH.OrderHandler
	Platform *httpH.PlatformHandler
	Account  *httpH.AccountHandler
	Event    *httpH.EventHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, svcs Services, hub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Product:  httpH.NewProductHandler(svcs.Marketplace),
		Order:    httpH.NewOrderHandler(svcs.Marketplace),
		Platform: httpH.NewPlatformHandler(svcs.Marketplace),
		Account:  httpH.NewAccountHandler(svcs.Marketplace),
		Event:    httpH.NewEventHandler(log, svcs.Marketplace, hub),
		Health:   httpH.NewHealthHandler(db, metrics),
	}
}

func wireServer(cfg Config, log *logger.Logger, svcs Services, h Handlers, metrics *observability.Metrics) *server.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if observability.OTelEnabled() {
		serviceName = cfg.OtelServiceName
	}
	return server.NewServer(server.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		Metrics:         metrics,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, svcs.Auth),
		ProductHandler:  h.Product,
		OrderHandler:    h.Order,
		PlatformHandler: h.Platform,
		AccountHandler:  h.Account,
		EventHandler:    h.Event,
		HealthHandler:   h.Health,
	})
}
