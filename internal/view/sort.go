package view

import (
	"cmp"
	"sort"
	"strings"

	"ship-tracker-backend/internal/model"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortByName         SortKey = "name"
	SortByViolation    SortKey = "violation"
	SortByTimeDetected SortKey = "timeDetected"
	SortByLocation     SortKey = "location"
	SortBySpeed        SortKey = "speed"
	SortByCourse       SortKey = "course"
	SortByDirection    SortKey = "direction"
	SortByID           SortKey = "id"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortConfig selects the sort key and direction. FoldCase compares text keys
// case-insensitively.
type SortConfig struct {
	Key       SortKey
	Direction Direction
	FoldCase  bool
}

// Toggle is the column-click transition: the same key flips from ascending
// to descending, anything else sorts key ascending.
func (s SortConfig) Toggle(key SortKey) SortConfig {
	dir := Asc
	if s.Key == key && s.Direction == Asc {
		dir = Desc
	}
	return SortConfig{Key: key, Direction: dir, FoldCase: s.FoldCase}
}

// Sort returns a sorted copy of records. Equal records keep their input
// order in both directions. An empty key returns the input order.
func Sort(records []model.ViewRecord, cfg SortConfig) []model.ViewRecord {
	out := make([]model.ViewRecord, len(records))
	copy(out, records)
	if cfg.Key == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], cfg)
		if cfg.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare(a, b model.ViewRecord, cfg SortConfig) int {
	text := func(x, y string) int {
		if cfg.FoldCase {
			x, y = strings.ToLower(x), strings.ToLower(y)
		}
		return strings.Compare(x, y)
	}
	switch cfg.Key {
	case SortByName:
		return text(a.Name, b.Name)
	case SortByViolation:
		return text(a.Violation.Label, b.Violation.Label)
	case SortByTimeDetected:
		return cmp.Compare(a.TimeDetected.UnixMilli(), b.TimeDetected.UnixMilli())
	case SortByLocation:
		return text(a.Location.Name, b.Location.Name)
	case SortBySpeed:
		return cmp.Compare(a.Speed, b.Speed)
	case SortByCourse:
		return cmp.Compare(a.Course, b.Course)
	case SortByDirection:
		return cmp.Compare(a.Direction, b.Direction)
	case SortByID:
		return strings.Compare(a.ID, b.ID)
	}
	return 0
}
