// Package telemetry provides the error-tracking sink for candidate failures.
package telemetry

import "time"

// Tracker records candidate evaluation failures for later inspection.
// Implementations are fire-and-forget: TrackError must never return an
// error or panic, because the search controller calls it on its hot path
// and continues regardless.
type Tracker interface {
	TrackError(err error, operation string, context map[string]interface{})
}

// ErrorEvent is one recorded failure.
type ErrorEvent struct {
	ID        int64
	Timestamp time.Time
	Operation string
	Message   string
	Context   map[string]interface{}
}

// Nop is a Tracker that discards everything. It keeps the search controller
// usable without a registry database.
type Nop struct{}

// TrackError implements Tracker.
func (Nop) TrackError(error, string, map[string]interface{}) {}
