package view

import "ship-tracker-backend/internal/model"

// Page is one client-side page of a filtered, sorted list.
type Page struct {
	Items      []model.ViewRecord
	Number     int
	TotalPages int
	TotalItems int
}

// Paginate slices records into pages of size and returns page number n
// (1-based). n is clamped into [1, TotalPages]; an empty list has one empty
// page.
func Paginate(records []model.ViewRecord, n, size int) Page {
	if size <= 0 {
		size = len(records)
		if size == 0 {
			size = 1
		}
	}
	total := len(records)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	start := (n - 1) * size
	end := min(start+size, total)
	items := make([]model.ViewRecord, end-start)
	copy(items, records[start:end])
	return Page{Items: items, Number: n, TotalPages: pages, TotalItems: total}
}
