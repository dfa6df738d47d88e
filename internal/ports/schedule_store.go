package ports

import (
	"context"
	"time"

	"production-scheduler-service/internal/domain"
)

// ScheduleStore persists committed schedule entries and answers when a
// machine is next free.
//
// Note on concurrency: LastEndTime and CreateEntry are separate calls with
// no isolation spanning them. Two scheduling runs racing on the same
// machine can both observe the same free-at time and commit overlapping
// windows. Serializing runs that share candidate equipment is the caller's
// responsibility.
type ScheduleStore interface {
	// Return the latest end time among the machine's committed entries,
	// or nil when it has none.
	LastEndTime(ctx context.Context, tenantID string, equipmentID int64) (*time.Time, error)

	// Durably store a new entry. The entry's ID is populated on return.
	CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error
}

// ScheduleRepository extends the store with the read side used by the API.
type ScheduleRepository interface {
	ScheduleStore

	// Return an order's committed entries sorted by start time.
	ListByOrder(ctx context.Context, tenantID string, orderID int64) ([]*domain.ScheduleEntry, error)
}
