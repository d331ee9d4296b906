package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/observability"
)

type HealthHandler struct {
	db      *gorm.DB
	metrics *observability.Metrics
}

func NewHealthHandler(db *gorm.DB, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{db: db, metrics: metrics}
}

// GET /healthcheck; ?verbose=1 adds database status and aggregate counters.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if c.Query("verbose") == "" {
		c.String(http.StatusOK, "ok")
		return
	}
	status := http.StatusOK
	dbState := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			dbState = err.Error()
		}
	}
	c.JSON(status, gin.H{
		"status":     http.StatusText(status),
		"database":   dbState,
		"aggregates": h.metrics.AggregateSnapshot(),
	})
}

// GET /metrics
func (h *HealthHandler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.String(http.StatusNotFound, "metrics disabled")
		return
	}
	h.metrics.WriteHTTP(c.Writer, c.Request)
}
