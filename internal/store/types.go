package store

import (
	"errors"
	"strings"

	"ship-tracker-backend/internal/model"
)

// ErrUnavailable marks a failure to reach the record store, as opposed to a
// query that simply matched nothing.
var ErrUnavailable = errors.New("store unavailable")

// ActiveShipsQuery selects a page of ships that have at least one position.
type ActiveShipsQuery struct {
	Limit  int
	Offset int
	Search string
}

// Normalize clamps the page bounds. A non-positive limit becomes defaultLimit,
// a limit above maxLimit becomes maxLimit, and a negative offset becomes 0.
func (q ActiveShipsQuery) Normalize(defaultLimit, maxLimit int) ActiveShipsQuery {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// JoinedShipView pairs a ship with its most recent position report.
type JoinedShipView struct {
	Ship   model.ShipMetadata
	Latest model.PositionReport
}

// ActiveShipsResult is one page of joined ships plus the unpaged match count.
type ActiveShipsResult struct {
	Records []JoinedShipView
	Total   int64
}

// HasMore reports whether rows exist past this page.
func (r ActiveShipsResult) HasMore(offset int) bool {
	return int64(offset+len(r.Records)) < r.Total
}
