package domain

import "time"

// ScheduleEntry is the unit of scheduling output: one routing step of one
// order committed to one machine for one time window. Entries are created
// exactly once per routing step per scheduling run and never amended by
// the scheduler; both timestamps fall inside a single workday's window.
type ScheduleEntry struct {
	ID            int64
	TenantID      string
	OrderID       int64
	RoutingStepID int64
	EquipmentID   int64
	StartDatetime time.Time
	EndDatetime   time.Time
}
