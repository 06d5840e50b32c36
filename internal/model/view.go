package model

import "time"

// Location is a position with a display label.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// Violation is the classification attached to every view record.
type Violation struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// ViewRecord is the flattened ship shape sent to clients.
type ViewRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     Location  `json:"location"`
	Direction    float64   `json:"direction"`
	Violation    Violation `json:"violation"`
	TimeDetected time.Time `json:"timeDetected"`
	Speed        float64   `json:"speed"`
	Course       float64   `json:"course"`
}

// Pagination describes the server-side page of an active-ships response.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// ShipsResponse is the body of GET /api/ships/active.
type ShipsResponse struct {
	Success    bool         `json:"success"`
	Data       []ViewRecord `json:"data"`
	Pagination Pagination   `json:"pagination"`
	Timestamp  time.Time    `json:"timestamp"`
}

// CollectionCounts reports record totals per collection.
type CollectionCounts struct {
	Ships     int64 `json:"ships"`
	Positions int64 `json:"positions"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Success     bool              `json:"success"`
	Status      string            `json:"status"`
	Database    string            `json:"database"`
	Collections *CollectionCounts `json:"collections,omitempty"`
	Error       string            `json:"error,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// HelloResponse is the body of GET /api/hello.
type HelloResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope shared by all endpoints.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
