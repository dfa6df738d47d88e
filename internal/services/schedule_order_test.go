package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"production-scheduler-service/internal/adapters/memory"
	"production-scheduler-service/internal/calendar"
	"production-scheduler-service/internal/domain"
)

// 2025-01-06 is a Monday.
func mon(hour, min int) time.Time {
	return time.Date(2025, 1, 6, hour, min, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestScheduleOrderPicksFreeMachine(t *testing.T) {
	// One step: 1800s setup + 600s/unit, quantity 10 = 130 minutes.
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 1, SequenceOrder: 1, EquipmentGroupID: 100, SetupTimeSeconds: 1800, UnitTimeSeconds: 600},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {1, 2}})

	store := memory.NewScheduleStore()
	// Machine 2 is busy until Monday 14:00; machine 1 has never run.
	store.Seed(2, mon(14, 0))

	req := ScheduleOrderRequest{
		TenantID:  "t1",
		OrderID:   1,
		ProductID: 1,
		Quantity:  10,
		StartTime: ptr(mon(8, 0)),
	}

	entries, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.EquipmentID != 1 {
		t.Errorf("equipment = %d, want free machine 1", e.EquipmentID)
	}
	if !e.StartDatetime.Equal(mon(9, 0)) {
		t.Errorf("start = %v, want Mon 09:00", e.StartDatetime)
	}
	if !e.EndDatetime.Equal(mon(11, 10)) {
		t.Errorf("end = %v, want Mon 11:10", e.EndDatetime)
	}
	if e.OrderID != 1 || e.RoutingStepID != 1 || e.TenantID != "t1" {
		t.Errorf("entry references wrong: %+v", e)
	}
}

func TestScheduleOrderRollsOverWhenWindowTooShort(t *testing.T) {
	// 9000s = 150 minutes, requested to start Monday 15:00: only 120
	// minutes remain, so the step moves to Tuesday 09:00.
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 1, SequenceOrder: 1, EquipmentGroupID: 100, UnitTimeSeconds: 9000},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {1}})
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 1, Quantity: 1, StartTime: ptr(mon(15, 0))}

	entries, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tue9 := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	if !entries[0].StartDatetime.Equal(tue9) {
		t.Errorf("start = %v, want Tue 09:00", entries[0].StartDatetime)
	}
	if !entries[0].EndDatetime.Equal(tue9.Add(150 * time.Minute)) {
		t.Errorf("end = %v, want Tue 11:30", entries[0].EndDatetime)
	}
}

func TestScheduleOrderNoRoutingSteps(t *testing.T) {
	routings := memory.NewRoutings(nil)
	membership := memory.NewMembership(nil)
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 42, Quantity: 1}

	_, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if !errors.Is(err, ErrNoRoutingSteps) {
		t.Fatalf("expected ErrNoRoutingSteps, got %v", err)
	}
}

func TestScheduleOrderEmptyEquipmentGroup(t *testing.T) {
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 1, SequenceOrder: 1, EquipmentGroupID: 100, UnitTimeSeconds: 60},
	})
	membership := memory.NewMembership(map[int64][]int64{})
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 1, Quantity: 1, StartTime: ptr(mon(9, 0))}

	_, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if !errors.Is(err, ErrNoEquipmentInGroup) {
		t.Fatalf("expected ErrNoEquipmentInGroup, got %v", err)
	}
}

func TestScheduleOrderPropagatesCapacityError(t *testing.T) {
	// 10h of work in one step exceeds the 8h daily cap.
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 1, SequenceOrder: 1, EquipmentGroupID: 100, UnitTimeSeconds: 36000},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {1}})
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 1, Quantity: 1, StartTime: ptr(mon(9, 0))}

	_, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if !errors.Is(err, calendar.ErrDurationExceedsCapacity) {
		t.Fatalf("expected ErrDurationExceedsCapacity, got %v", err)
	}
}

func TestScheduleOrderChainsStepsBackToBack(t *testing.T) {
	// Three steps on three free machines: each step starts exactly when
	// the previous one ends.
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 2, SequenceOrder: 1, EquipmentGroupID: 100, SetupTimeSeconds: 1800, UnitTimeSeconds: 600},
		{ID: 2, ProductID: 2, SequenceOrder: 2, EquipmentGroupID: 200, SetupTimeSeconds: 2400, UnitTimeSeconds: 900},
		{ID: 3, ProductID: 2, SequenceOrder: 3, EquipmentGroupID: 300, SetupTimeSeconds: 600, UnitTimeSeconds: 300},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {1}, 200: {2}, 300: {3}})
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 2, ProductID: 2, Quantity: 5, StartTime: ptr(mon(9, 0))}

	entries, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for i, wantStep := range []int64{1, 2, 3} {
		if entries[i].RoutingStepID != wantStep {
			t.Errorf("entry %d routing step = %d, want %d", i, entries[i].RoutingStepID, wantStep)
		}
	}

	// 1800+600*5 = 4800s = 80min; 2400+900*5 = 6900s = 115min; 600+300*5 = 2100s = 35min.
	if !entries[0].StartDatetime.Equal(mon(9, 0)) || !entries[0].EndDatetime.Equal(mon(10, 20)) {
		t.Errorf("step 1 window = [%v, %v], want [09:00, 10:20]", entries[0].StartDatetime, entries[0].EndDatetime)
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i].StartDatetime.Equal(entries[i-1].EndDatetime) {
			t.Errorf("step %d starts %v, want previous end %v", i+1, entries[i].StartDatetime, entries[i-1].EndDatetime)
		}
	}
	if !entries[2].EndDatetime.Equal(mon(12, 50)) {
		t.Errorf("final end = %v, want Mon 12:50", entries[2].EndDatetime)
	}
}

func TestScheduleOrderMonotonicAcrossSharedMachine(t *testing.T) {
	// Both steps run on the same machine; starts must never precede the
	// previous step's end even though the machine is its own predecessor.
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 3, SequenceOrder: 1, EquipmentGroupID: 100, UnitTimeSeconds: 3600},
		{ID: 2, ProductID: 3, SequenceOrder: 2, EquipmentGroupID: 100, UnitTimeSeconds: 3600},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {7}})
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 3, ProductID: 3, Quantity: 2, StartTime: ptr(mon(9, 0))}

	entries, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].StartDatetime.Before(entries[i-1].EndDatetime) {
			t.Errorf("entry %d starts %v before previous end %v", i, entries[i].StartDatetime, entries[i-1].EndDatetime)
		}
	}
}

func TestScheduleOrderPrefersEarlierMachineAndBreaksTiesByOrder(t *testing.T) {
	routings := memory.NewRoutings([]domain.RoutingStep{
		{ID: 1, ProductID: 1, SequenceOrder: 1, EquipmentGroupID: 100, UnitTimeSeconds: 3600},
	})
	membership := memory.NewMembership(map[int64][]int64{100: {1, 2}})

	// Machine 1 busy until 13:00, machine 2 free: machine 2 wins.
	store := memory.NewScheduleStore()
	store.Seed(1, mon(13, 0))

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 1, Quantity: 1, StartTime: ptr(mon(9, 0))}
	entries, err := ScheduleOrder(context.Background(), req, routings, membership, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].EquipmentID != 2 {
		t.Errorf("equipment = %d, want free machine 2", entries[0].EquipmentID)
	}

	// Both free: lowest id (first in provider order) wins the tie.
	freshStore := memory.NewScheduleStore()
	entries, err = ScheduleOrder(context.Background(), req, routings, membership, freshStore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].EquipmentID != 1 {
		t.Errorf("equipment = %d, want first-seen machine 1", entries[0].EquipmentID)
	}
}

func TestScheduleOrderRejectsNonPositiveQuantity(t *testing.T) {
	routings := memory.NewRoutings(nil)
	membership := memory.NewMembership(nil)
	store := memory.NewScheduleStore()

	req := ScheduleOrderRequest{TenantID: "t1", OrderID: 1, ProductID: 1, Quantity: 0}
	if _, err := ScheduleOrder(context.Background(), req, routings, membership, store); err == nil {
		t.Fatal("expected error for quantity 0")
	}
}
