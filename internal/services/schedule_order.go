package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"production-scheduler-service/internal/calendar"
	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/ports"
)

var (
	// ErrNoRoutingSteps is returned when the product has no manufacturing
	// steps defined. Retrying without fixing master data will not help.
	ErrNoRoutingSteps = errors.New("product has no routing steps")

	// ErrNoEquipmentInGroup is returned when a step's equipment group
	// resolves to an empty machine set.
	ErrNoEquipmentInGroup = errors.New("equipment group has no members")
)

type ScheduleOrderRequest struct {
	TenantID  string
	OrderID   int64
	ProductID int64
	Quantity  int
	// StartTime is the reference instant the first step may not start
	// before. Defaults to the current time when nil.
	StartTime *time.Time
}

// candidate pairs a machine with the earliest instant it could run the step.
type candidate struct {
	equipmentID int64
	start       time.Time
}

// ScheduleOrder assigns every routing step of an order to a machine and a
// work-window-valid time slot, committing one ScheduleEntry per step.
//
// Steps are walked in sequence order; for each step every machine in the
// step's equipment group is considered and the one offering the earliest
// feasible start wins (ties go to the first machine in the provider's
// ordering). Step N+1 never starts before step N ends, whichever machines
// were chosen.
//
// On failure the committed entries of earlier steps are not rolled back;
// the caller receives the error and no partial list.
func ScheduleOrder(
	ctx context.Context,
	req ScheduleOrderRequest,
	routings ports.RoutingProvider,
	equipment ports.EquipmentMembership,
	store ports.ScheduleStore,
) ([]*domain.ScheduleEntry, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("schedule order: quantity must be positive, got %d", req.Quantity)
	}

	steps, err := routings.StepsForProduct(ctx, req.TenantID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("schedule order: fetch routing steps for product %d: %w", req.ProductID, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("schedule order: %w: product_id=%d", ErrNoRoutingSteps, req.ProductID)
	}

	// Cursor: earliest instant the next step may start. Advanced to each
	// committed step's end, which makes an order's entries totally ordered.
	cursor := time.Now()
	if req.StartTime != nil {
		cursor = *req.StartTime
	}

	entries := make([]*domain.ScheduleEntry, 0, len(steps))

	for _, step := range steps {
		durationMin := step.DurationMinutes(req.Quantity)

		machineIDs, err := equipment.MembersOfGroup(ctx, req.TenantID, step.EquipmentGroupID)
		if err != nil {
			return nil, fmt.Errorf(
				"schedule order: resolve equipment group %d for step seq=%d: %w",
				step.EquipmentGroupID, step.SequenceOrder, err,
			)
		}
		if len(machineIDs) == 0 {
			return nil, fmt.Errorf(
				"schedule order: %w: equipment_group_id=%d (step seq=%d)",
				ErrNoEquipmentInGroup, step.EquipmentGroupID, step.SequenceOrder,
			)
		}

		best, err := earliestCandidate(ctx, req.TenantID, machineIDs, cursor, durationMin, store)
		if err != nil {
			return nil, fmt.Errorf("schedule order: step seq=%d: %w", step.SequenceOrder, err)
		}

		endTime, err := calendar.CalculateEndTime(best.start, durationMin)
		if err != nil {
			// NextAvailableStart already validated the slot, so this is an
			// internal consistency failure, not caller input.
			return nil, fmt.Errorf("schedule order: step seq=%d: %w", step.SequenceOrder, err)
		}

		entry := &domain.ScheduleEntry{
			TenantID:      req.TenantID,
			OrderID:       req.OrderID,
			RoutingStepID: step.ID,
			EquipmentID:   best.equipmentID,
			StartDatetime: best.start,
			EndDatetime:   endTime,
		}
		if err := store.CreateEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("schedule order: persist entry for step seq=%d: %w", step.SequenceOrder, err)
		}

		entries = append(entries, entry)
		cursor = endTime
	}

	return entries, nil
}

// earliestCandidate evaluates every machine in iteration order and returns
// the one that can start soonest. First seen wins on ties, so the provider's
// stable ordering decides between equally free machines.
func earliestCandidate(
	ctx context.Context,
	tenantID string,
	machineIDs []int64,
	cursor time.Time,
	durationMin float64,
	store ports.ScheduleStore,
) (candidate, error) {
	var best candidate

	for _, id := range machineIDs {
		lastEnd, err := store.LastEndTime(ctx, tenantID, id)
		if err != nil {
			return candidate{}, fmt.Errorf("last end time for equipment %d: %w", id, err)
		}

		// A machine with no history is free from the cursor; otherwise it
		// frees up when its latest committed entry ends. A step can start
		// neither before its machine is free nor before the previous step
		// of the same order finished.
		base := cursor
		if lastEnd != nil && lastEnd.After(base) {
			base = *lastEnd
		}

		start, err := calendar.NextAvailableStart(base, durationMin)
		if err != nil {
			return candidate{}, fmt.Errorf("next available start for equipment %d: %w", id, err)
		}

		if best.start.IsZero() || start.Before(best.start) {
			best = candidate{equipmentID: id, start: start}
		}
	}

	return best, nil
}
