package api

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"ship-tracker-backend/internal/model"
)

// GetHealth handles GET /api/health: a store ping plus collection counts.
func (h *Handler) GetHealth(c *gin.Context) {
	var counts model.CollectionCounts
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.store.Ping(ctx)
	})
	g.Go(func() error {
		var err error
		counts, err = h.store.Counts(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, model.HealthResponse{
			Success:   false,
			Status:    "unhealthy",
			Database:  "disconnected",
			Error:     err.Error(),
			Timestamp: h.now(),
		})
		return
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Success:     true,
		Status:      "healthy",
		Database:    "connected",
		Collections: &counts,
		Timestamp:   h.now(),
	})
}

// GetHello handles GET /api/hello.
func (h *Handler) GetHello(c *gin.Context) {
	c.JSON(http.StatusOK, model.HelloResponse{Message: "Hello from backend!"})
}
