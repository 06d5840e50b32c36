package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"ship-tracker-backend/internal/model"
)

type bulkRequest struct {
	Data json.RawMessage `json:"data"`
}

// decodeBulk accepts {data: [...]} or {data: {...}} and reports whether the
// payload was an array.
func decodeBulk[T any](c *gin.Context) ([]T, bool, error) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, false, fmt.Errorf("invalid request body: %w", err)
	}
	raw := bytes.TrimSpace(req.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false, errors.New("data is required")
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, true, fmt.Errorf("invalid data array: %w", err)
		}
		return items, true, nil
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, false, fmt.Errorf("invalid data object: %w", err)
	}
	return []T{item}, false, nil
}

// PostStaticShipsBulk handles POST /api/static-ships/bulk.
func (h *Handler) PostStaticShipsBulk(c *gin.Context) {
	ships, isArray, err := decodeBulk[model.ShipMetadata](c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.store.UpsertShips(c.Request.Context(), ships)
	if err != nil {
		log.WithError(err).Error("bulk ship insert failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isArray {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Static ship record saved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"inserted": n,
		"message":  fmt.Sprintf("Successfully inserted %d static ships records", n),
	})
}

// PostPositionReportsBulk handles POST /api/position-reports/bulk.
func (h *Handler) PostPositionReportsBulk(c *gin.Context) {
	positions, isArray, err := decodeBulk[model.PositionReport](c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.store.InsertPositions(c.Request.Context(), positions)
	if err != nil {
		log.WithError(err).Error("bulk position insert failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isArray {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Position report saved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"inserted": n,
		"message":  fmt.Sprintf("Successfully inserted %d position reports", n),
	})
}
