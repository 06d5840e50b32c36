package model

import (
	"time"

	"gorm.io/datatypes"
)

// ShipMetadata is the static AIS record for one vessel. Field names follow
// the AIS ShipStaticData message so bulk payloads decode verbatim.
type ShipMetadata struct {
	UserID               int64          `gorm:"primaryKey;autoIncrement:false" json:"UserID"`
	MessageID            *int           `json:"MessageID,omitempty"`
	RepeatIndicator      *int           `json:"RepeatIndicator,omitempty"`
	Valid                *bool          `json:"Valid,omitempty"`
	AisVersion           *int           `json:"AisVersion,omitempty"`
	ImoNumber            *int64         `json:"ImoNumber,omitempty"`
	CallSign             *string        `gorm:"size:32" json:"CallSign,omitempty"`
	Name                 *string        `gorm:"size:128" json:"Name,omitempty"`
	Type                 *int           `json:"Type,omitempty"`
	Dimension            datatypes.JSON `json:"Dimension,omitempty"`
	FixType              *int           `json:"FixType,omitempty"`
	Eta                  datatypes.JSON `json:"Eta,omitempty"`
	MaximumStaticDraught *float64       `json:"MaximumStaticDraught,omitempty"`
	Destination          *string        `gorm:"size:128" json:"Destination,omitempty"`
	Dte                  *bool          `json:"Dte,omitempty"`
	CreatedAt            time.Time      `json:"-"`
	UpdatedAt            time.Time      `json:"-"`
}

// TableName keeps the collection name used by the ingestion side.
func (ShipMetadata) TableName() string {
	return "static_ships"
}
