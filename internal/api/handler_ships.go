package api

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/mw"
	"ship-tracker-backend/internal/parse"
	"ship-tracker-backend/internal/store"
)

// GetActiveShips handles GET /api/ships/active?limit=&offset=&search=.
func (h *Handler) GetActiveShips(c *gin.Context) {
	q := store.ActiveShipsQuery{
		Limit:  parse.NonNegativeInt(c.Query("limit"), h.query.DefaultLimit),
		Offset: parse.NonNegativeInt(c.Query("offset"), 0),
		Search: c.Query("search"),
	}.Normalize(h.query.DefaultLimit, h.query.MaxLimit)

	res, err := h.store.QueryActiveShips(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		log.WithError(err).WithFields(log.Fields{
			"request_id": mw.GetRequestID(c),
			"limit":      q.Limit,
			"offset":     q.Offset,
			"search":     q.Search,
		}).Error("failed to fetch ships")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success:   false,
			Error:     "FETCH_SHIPS_ERROR",
			Message:   "Failed to fetch ship data",
			Details:   err.Error(),
			Timestamp: h.now(),
		})
		return
	}

	now := h.now()
	c.JSON(http.StatusOK, model.ShipsResponse{
		Success: true,
		Data:    h.transformer.ToViewRecords(res.Records, now),
		Pagination: model.Pagination{
			Total:   res.Total,
			Limit:   q.Limit,
			Offset:  q.Offset,
			HasMore: res.HasMore(q.Offset),
		},
		Timestamp: now,
	})
}
