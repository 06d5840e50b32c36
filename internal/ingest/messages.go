package ingest

import (
	"encoding/json"

	"ship-tracker-backend/internal/model"
)

// AIS message types requested from the stream.
const (
	TypePositionReport = "PositionReport"
	TypeShipStaticData = "ShipStaticData"
)

// subscription is the first frame sent after connecting.
type subscription struct {
	APIKey             string          `json:"APIKey"`
	BoundingBoxes      [][2][2]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string        `json:"FilterMessageTypes"`
}

// envelope models one frame of the AIS stream. Message holds a single key
// named after MessageType.
type envelope struct {
	MessageType string                     `json:"MessageType"`
	Message     map[string]json.RawMessage `json:"Message"`
}

// JobKind tells a worker which collection a job writes to.
type JobKind int

const (
	JobShip JobKind = iota
	JobPosition
)

// Job is one record waiting to be persisted.
type Job struct {
	Kind     JobKind
	Ship     model.ShipMetadata
	Position model.PositionReport
}
