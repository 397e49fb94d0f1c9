package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated         uint64
	UsersDeleted         uint64
	MessagesCreated      uint64
	ValidationFailures   uint64
	StoreErrors          uint64
	StoreDurationCount   uint64
	StoreDurationTotalNs int64
	RateLimited          uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated         atomic.Uint64
	usersDeleted         atomic.Uint64
	messagesCreated      atomic.Uint64
	validationFailures   atomic.Uint64
	storeErrors          atomic.Uint64
	storeDurationCount   atomic.Uint64
	storeDurationTotalNs atomic.Int64
	rateLimited          atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:         m.usersCreated.Load(),
		UsersDeleted:         m.usersDeleted.Load(),
		MessagesCreated:      m.messagesCreated.Load(),
		ValidationFailures:   m.validationFailures.Load(),
		StoreErrors:          m.storeErrors.Load(),
		StoreDurationCount:   m.storeDurationCount.Load(),
		StoreDurationTotalNs: m.storeDurationTotalNs.Load(),
		RateLimited:          m.rateLimited.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncMessageCreated increments the message created counter.
func (m *InMemoryRecorder) IncMessageCreated() { m.messagesCreated.Add(1) }

// IncValidationFailure increments the rejected input counter.
func (m *InMemoryRecorder) IncValidationFailure() { m.validationFailures.Add(1) }

// IncStoreError increments the store failure counter.
func (m *InMemoryRecorder) IncStoreError() { m.storeErrors.Add(1) }

// ObserveStoreDuration records the duration of one store call.
func (m *InMemoryRecorder) ObserveStoreDuration(duration time.Duration) {
	m.storeDurationCount.Add(1)
	m.storeDurationTotalNs.Add(duration.Nanoseconds())
}

// IncRateLimited increments the rate limited request counter.
func (m *InMemoryRecorder) IncRateLimited() { m.rateLimited.Add(1) }
