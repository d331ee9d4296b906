package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/marketledger-backend/internal/http/handlers"
	httpMW "github.com/yungbote/marketledger-backend/internal/http/middleware"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	ProductHandler  *httpH.ProductHandler
	OrderHandler    *httpH.OrderHandler
	PlatformHandler *httpH.PlatformHandler
	AccountHandler  *httpH.AccountHandler
	EventHandler    *httpH.EventHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/metrics", cfg.HealthHandler.Metrics)
	}

	api := r.Group("/api")
	{
		// Reads (public)
		if cfg.ProductHandler != nil {
			api.GET("/products/:id", cfg.ProductHandler.Get)
			api.GET("/sellers/:identity/products", cfg.ProductHandler.SellerProducts)
		}
		if cfg.OrderHandler != nil {
			api.GET("/orders/:id", cfg.OrderHandler.Get)
			api.GET("/buyers/:identity/orders", cfg.OrderHandler.BuyerOrders)
		}
		if cfg.PlatformHandler != nil {
			api.GET("/platform/owner", cfg.PlatformHandler.GetOwner)
		}
		if cfg.AccountHandler != nil {
			api.GET("/accounts/:identity/balance", cfg.AccountHandler.Balance)
		}
		if cfg.EventHandler != nil {
			api.GET("/events", cfg.EventHandler.List)
			stream := api.Group("/")
			if cfg.AuthMiddleware != nil {
				stream.Use(cfg.AuthMiddleware.OptionalAuth())
			}
			stream.GET("/stream", cfg.EventHandler.Stream)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.ProductHandler != nil {
			protected.POST("/products", cfg.ProductHandler.List)
			protected.POST("/products/:id/purchase", cfg.ProductHandler.Purchase)
			protected.PUT("/products/:id/stock", cfg.ProductHandler.SetStock)
			protected.POST("/products/:id/deactivate", cfg.ProductHandler.Deactivate)
			protected.GET("/products/:id/orders", cfg.ProductHandler.Orders)
		}
		if cfg.OrderHandler != nil {
			protected.POST("/orders/:id/deliver", cfg.OrderHandler.Deliver)
		}
		if cfg.PlatformHandler != nil {
			protected.PUT("/platform/owner", cfg.PlatformHandler.UpdateOwner)
		}
		if cfg.AccountHandler != nil {
			protected.PUT("/accounts/me/receiving", cfg.AccountHandler.SetReceiving)
		}
	}

	return r
}
