package api

import (
	"time"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/store"
	"ship-tracker-backend/internal/transform"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	transformer *transform.Transformer
	query       config.QueryConfig
	now         func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, t *transform.Transformer, q config.QueryConfig) *Handler {
	if t == nil {
		t = transform.NewTransformer(nil, nil)
	}
	if q.DefaultLimit <= 0 {
		q.DefaultLimit = 50
	}
	return &Handler{
		store:       s,
		transformer: t,
		query:       q,
		now:         func() time.Time { return time.Now().UTC() },
	}
}
