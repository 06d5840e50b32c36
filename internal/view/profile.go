package view

import "time"

// Profile is the fixed configuration of one screen.
type Profile struct {
	Name            string
	PageSize        int
	RefreshInterval time.Duration // 0 disables periodic refresh
	FetchLimit      int
	DefaultSort     SortConfig
	TimeRange       string
	DateRangeDays   int // >0 adds a calendar date filter ending today
}

var (
	// CurrentActivity lists recent detections, newest first.
	CurrentActivity = Profile{
		Name:            "current",
		PageSize:        10,
		RefreshInterval: 30 * time.Second,
		FetchLimit:      50,
		DefaultSort:     SortConfig{Key: SortByTimeDetected, Direction: Desc},
		TimeRange:       Range30d,
	}

	// ShipsList lists every active ship by name.
	ShipsList = Profile{
		Name:            "ships",
		PageSize:        15,
		RefreshInterval: 45 * time.Second,
		FetchLimit:      100,
		DefaultSort:     SortConfig{Key: SortByName, Direction: Asc},
	}

	// History browses detections by calendar date and is never refreshed.
	History = Profile{
		Name:          "history",
		PageSize:      20,
		FetchLimit:    100,
		DefaultSort:   SortConfig{Key: SortByTimeDetected, Direction: Desc, FoldCase: true},
		TimeRange:     Range30d,
		DateRangeDays: 30,
	}
)

// Profiles indexes the built-in profiles by name.
var Profiles = map[string]Profile{
	CurrentActivity.Name: CurrentActivity,
	ShipsList.Name:       ShipsList,
	History.Name:         History,
}

// InitialFilters are the filters a screen opens with.
func (p Profile) InitialFilters(now time.Time) Filters {
	f := DefaultFilters()
	f.TimeRange = p.TimeRange
	if p.DateRangeDays > 0 {
		r := LastDays(now, p.DateRangeDays)
		f.DateRange = &r
	}
	return f
}
