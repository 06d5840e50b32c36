package transform

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/store"
)

var now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func TestToViewRecord_AllFieldsAbsent(t *testing.T) {
	tr := NewTransformer(nil, nil)

	rec := tr.ToViewRecord(&model.ShipMetadata{}, &model.PositionReport{}, now)
	assert.Equal(t, "unknown", rec.ID)
	assert.Equal(t, "Unknown Vessel", rec.Name)
	assert.Equal(t, 0.0, rec.Location.Lat)
	assert.Equal(t, 0.0, rec.Location.Lng)
	assert.Equal(t, "0.0000°N, 0.0000°E", rec.Location.Name)
	assert.Equal(t, 0.0, rec.Direction)
	assert.Equal(t, 0.0, rec.Speed)
	assert.Equal(t, 0.0, rec.Course)
	assert.Equal(t, Monitoring, rec.Violation)
	assert.Equal(t, now, rec.TimeDetected)

	assert.NotPanics(t, func() { tr.ToViewRecord(nil, nil, now) })
}

func TestToViewRecord_Populated(t *testing.T) {
	received := now.Add(-time.Minute)
	rec := NewTransformer(nil, nil).ToViewRecord(
		&model.ShipMetadata{UserID: 563012345, Name: str("EVER GIVEN")},
		&model.PositionReport{
			Latitude:          f64(1.3),
			Longitude:         f64(103.8),
			Sog:               f64(12.5),
			Cog:               f64(270),
			TrueHeading:       f64(268),
			ReceivedTimestamp: &received,
		},
		now,
	)

	assert.Equal(t, "563012345", rec.ID)
	assert.Equal(t, "EVER GIVEN", rec.Name)
	assert.Equal(t, model.Location{Lat: 1.3, Lng: 103.8, Name: "Singapore Waters"}, rec.Location)
	assert.Equal(t, 268.0, rec.Direction)
	assert.Equal(t, 12.5, rec.Speed)
	assert.Equal(t, 270.0, rec.Course)
	assert.Equal(t, received, rec.TimeDetected)
}

func TestToViewRecord_Direction(t *testing.T) {
	tr := NewTransformer(nil, nil)
	testCases := []struct {
		name string
		pos  model.PositionReport
		want float64
	}{
		{"heading wins", model.PositionReport{TrueHeading: f64(10), Cog: f64(20)}, 10},
		{"zero heading is present", model.PositionReport{TrueHeading: f64(0), Cog: f64(20)}, 0},
		{"course fallback", model.PositionReport{Cog: f64(20)}, 20},
		{"NaN heading is absent", model.PositionReport{TrueHeading: f64(math.NaN()), Cog: f64(30)}, 30},
		{"nothing", model.PositionReport{}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pos := tc.pos
			assert.Equal(t, tc.want, tr.ToViewRecord(&model.ShipMetadata{UserID: 1}, &pos, now).Direction)
		})
	}
}

func TestToViewRecord_TimeDetectedFallsBackToStoreTime(t *testing.T) {
	stored := now.Add(-time.Hour)
	rec := NewTransformer(nil, nil).ToViewRecord(&model.ShipMetadata{UserID: 1}, &model.PositionReport{CreatedAt: stored}, now)
	assert.Equal(t, stored, rec.TimeDetected)
}

func TestToViewRecord_CustomClassifier(t *testing.T) {
	speeding := model.Violation{Type: "speed-violation", Label: "Speed Violation", Severity: "high"}
	tr := NewTransformer(nil, ClassifierFunc(func(_ *model.ShipMetadata, p *model.PositionReport) model.Violation {
		if p.Sog != nil && *p.Sog > 30 {
			return speeding
		}
		return Monitoring
	}))

	assert.Equal(t, speeding, tr.ToViewRecord(&model.ShipMetadata{UserID: 1}, &model.PositionReport{Sog: f64(35)}, now).Violation)
	assert.Equal(t, Monitoring, tr.ToViewRecord(&model.ShipMetadata{UserID: 1}, &model.PositionReport{Sog: f64(5)}, now).Violation)
}

func TestToViewRecords_KeepsOrder(t *testing.T) {
	rows := []store.JoinedShipView{
		{Ship: model.ShipMetadata{UserID: 2}, Latest: model.PositionReport{Sog: f64(2)}},
		{Ship: model.ShipMetadata{UserID: 1}, Latest: model.PositionReport{Sog: f64(1)}},
	}
	recs := NewTransformer(nil, nil).ToViewRecords(rows, now)
	assert.Equal(t, "2", recs[0].ID)
	assert.Equal(t, "1", recs[1].ID)
	assert.NotNil(t, NewTransformer(nil, nil).ToViewRecords(nil, now))
}
