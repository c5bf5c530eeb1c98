package permission

import "time"

// Change records a platform-originated permission status transition. Produced
// by adapters, consumed by the orchestrator, and re-emitted to subscribers.
type Change struct {
	// Permission is the permission whose status changed.
	Permission Permission

	// Status is the new status.
	Status Status

	// Previous is the status before the change, if the platform reported it.
	// Empty when the previous status is unknown.
	Previous Status

	// Timestamp is when the change was observed.
	Timestamp time.Time
}
