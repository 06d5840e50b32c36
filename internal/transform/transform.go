package transform

import (
	"math"
	"strconv"
	"time"

	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/store"
)

const (
	unknownID   = "unknown"
	unknownName = "Unknown Vessel"
)

// Transformer maps joined ship rows to view records.
type Transformer struct {
	locator    *Locator
	classifier Classifier
}

// NewTransformer creates a Transformer; nil arguments select the defaults.
func NewTransformer(locator *Locator, classifier Classifier) *Transformer {
	if locator == nil {
		locator = NewLocator(nil)
	}
	if classifier == nil {
		classifier = MonitoringClassifier{}
	}
	return &Transformer{locator: locator, classifier: classifier}
}

// ToViewRecord flattens a ship and its latest position. It never fails: every
// missing field takes its documented default. Missing coordinates become 0,
// which is indistinguishable from a real fix on the equator or meridian.
func (t *Transformer) ToViewRecord(ship *model.ShipMetadata, latest *model.PositionReport, now time.Time) model.ViewRecord {
	if ship == nil {
		ship = &model.ShipMetadata{}
	}
	if latest == nil {
		latest = &model.PositionReport{}
	}

	id := unknownID
	if ship.UserID != 0 {
		id = strconv.FormatInt(ship.UserID, 10)
	}
	name := unknownName
	if ship.Name != nil && *ship.Name != "" {
		name = *ship.Name
	}

	lat := orZero(latest.Latitude)
	lng := orZero(latest.Longitude)

	direction := 0.0
	switch {
	case finite(latest.TrueHeading):
		direction = *latest.TrueHeading
	case finite(latest.Cog):
		direction = *latest.Cog
	}

	return model.ViewRecord{
		ID:   id,
		Name: name,
		Location: model.Location{
			Lat:  lat,
			Lng:  lng,
			Name: t.locator.Name(lat, lng),
		},
		Direction:    direction,
		Violation:    t.classifier.Classify(ship, latest),
		TimeDetected: timeDetected(latest, now),
		Speed:        orZero(latest.Sog),
		Course:       orZero(latest.Cog),
	}
}

// ToViewRecords transforms a query page in order.
func (t *Transformer) ToViewRecords(rows []store.JoinedShipView, now time.Time) []model.ViewRecord {
	out := make([]model.ViewRecord, 0, len(rows))
	for i := range rows {
		out = append(out, t.ToViewRecord(&rows[i].Ship, &rows[i].Latest, now))
	}
	return out
}

func timeDetected(p *model.PositionReport, now time.Time) time.Time {
	if p.ReceivedTimestamp != nil && !p.ReceivedTimestamp.IsZero() {
		return *p.ReceivedTimestamp
	}
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return now
}

// finite reports whether v is present and a usable number.
func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func orZero(v *float64) float64 {
	if finite(v) {
		return *v
	}
	return 0
}
