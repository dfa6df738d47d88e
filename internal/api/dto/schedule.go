package dto

import "time"

type ScheduleRequest struct {
	// StartTime is the earliest instant the first step may begin.
	// Defaults to the time of the request when omitted.
	StartTime *time.Time `json:"start_time"`
}

type ScheduleEntryResponse struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	RoutingStepID int64     `json:"routing_step_id"`
	EquipmentID   int64     `json:"equipment_id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

type ListScheduleEntriesResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
}
