package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/mw"
	"ship-tracker-backend/internal/store"
	"ship-tracker-backend/internal/transform"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, t *transform.Transformer, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestID(), mw.AccessLog(), mw.Recovery())

	handler := NewHandler(s, t, cfg.Query)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	maxBody := int64(cfg.Server.MaxBodyMB) << 20

	shipsChain := []gin.HandlerFunc{}
	if cfg.Server.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
		shipsChain = append(shipsChain, mw.Cache(cache.New(ttl, 2*ttl), ttl))
	}
	shipsChain = append(shipsChain, handler.GetActiveShips)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/ships/active", shipsChain...)
		api.GET("/health", handler.GetHealth)
		api.GET("/hello", handler.GetHello)

		bulk := api.Group("", limitBody(maxBody))
		bulk.POST("/static-ships/bulk", handler.PostStaticShipsBulk)
		bulk.POST("/position-reports/bulk", handler.PostPositionReportsBulk)
	}

	return r
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
