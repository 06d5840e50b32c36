package transform

import "ship-tracker-backend/internal/model"

// Classifier assigns a violation to a ship given its latest position.
type Classifier interface {
	Classify(ship *model.ShipMetadata, position *model.PositionReport) model.Violation
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ship *model.ShipMetadata, position *model.PositionReport) model.Violation

// Classify calls f.
func (f ClassifierFunc) Classify(ship *model.ShipMetadata, position *model.PositionReport) model.Violation {
	return f(ship, position)
}

// Monitoring is the placeholder classification given to every ship; no
// detection rules exist yet.
var Monitoring = model.Violation{Type: "monitoring", Label: "Monitoring", Severity: "info"}

// MonitoringClassifier labels every ship as monitored.
type MonitoringClassifier struct{}

// Classify always returns Monitoring.
func (MonitoringClassifier) Classify(*model.ShipMetadata, *model.PositionReport) model.Violation {
	return Monitoring
}
