// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Resource metrics
	IncUserCreated()
	IncUserDeleted()
	IncMessageCreated()
	IncValidationFailure()

	// Store metrics
	IncStoreError()
	ObserveStoreDuration(duration time.Duration)

	// Rate limiting
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
