package model

import "time"

// PositionReport is one AIS position fix. Reports are append-only; UserID
// references ShipMetadata but the relation is not enforced.
type PositionReport struct {
	ID                        int64      `gorm:"primaryKey" json:"-"`
	UserID                    int64      `gorm:"not null;index:idx_position_user_received,priority:1" json:"UserID"`
	MessageID                 *int       `json:"MessageID,omitempty"`
	RepeatIndicator           *int       `json:"RepeatIndicator,omitempty"`
	Valid                     *bool      `json:"Valid,omitempty"`
	NavigationalStatus        *int       `json:"NavigationalStatus,omitempty"`
	RateOfTurn                *float64   `json:"RateOfTurn,omitempty"`
	Sog                       *float64   `json:"Sog,omitempty"`
	PositionAccuracy          *bool      `json:"PositionAccuracy,omitempty"`
	Longitude                 *float64   `json:"Longitude,omitempty"`
	Latitude                  *float64   `json:"Latitude,omitempty"`
	Cog                       *float64   `json:"Cog,omitempty"`
	TrueHeading               *float64   `json:"TrueHeading,omitempty"`
	Timestamp                 *int       `json:"Timestamp,omitempty"`
	SpecialManoeuvreIndicator *int       `json:"SpecialManoeuvreIndicator,omitempty"`
	Raim                      *bool      `json:"Raim,omitempty"`
	CommunicationState        *int       `json:"CommunicationState,omitempty"`
	ReceivedTimestamp         *time.Time `gorm:"index:idx_position_user_received,priority:2" json:"received_timestamp,omitempty"`
	CreatedAt                 time.Time  `gorm:"not null" json:"-"` // Time the store accepted the report
}

// TableName keeps the collection name used by the ingestion side.
func (PositionReport) TableName() string {
	return "position_reports"
}

// RecencyTime is the instant used to rank reports of one vessel.
func (p PositionReport) RecencyTime() time.Time {
	if p.ReceivedTimestamp != nil && !p.ReceivedTimestamp.IsZero() {
		return *p.ReceivedTimestamp
	}
	return p.CreatedAt
}
