// Package memory provides in-memory implementations of the scheduling
// ports. They back the service tests and the handler tests, and are handy
// for wiring a throwaway instance without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"production-scheduler-service/internal/domain"
)

// Routings serves routing steps keyed by product id.
type Routings struct {
	byProduct map[int64][]domain.RoutingStep
}

func NewRoutings(steps []domain.RoutingStep) *Routings {
	byProduct := make(map[int64][]domain.RoutingStep)
	for _, s := range steps {
		byProduct[s.ProductID] = append(byProduct[s.ProductID], s)
	}
	for id := range byProduct {
		sort.Slice(byProduct[id], func(i, j int) bool {
			return byProduct[id][i].SequenceOrder < byProduct[id][j].SequenceOrder
		})
	}
	return &Routings{byProduct: byProduct}
}

func (r *Routings) StepsForProduct(ctx context.Context, tenantID string, productID int64) ([]domain.RoutingStep, error) {
	return r.byProduct[productID], nil
}

// Membership serves equipment ids keyed by group id, sorted ascending.
type Membership struct {
	byGroup map[int64][]int64
}

func NewMembership(byGroup map[int64][]int64) *Membership {
	m := make(map[int64][]int64, len(byGroup))
	for g, ids := range byGroup {
		sorted := append([]int64(nil), ids...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		m[g] = sorted
	}
	return &Membership{byGroup: m}
}

func (m *Membership) MembersOfGroup(ctx context.Context, tenantID string, groupID int64) ([]int64, error) {
	return m.byGroup[groupID], nil
}

// ScheduleStore keeps committed entries in memory. Safe for concurrent use.
type ScheduleStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []*domain.ScheduleEntry
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{}
}

// Seed records a pre-existing commitment on a machine, so tests can model
// equipment that is busy before the run under test begins.
func (s *ScheduleStore) Seed(equipmentID int64, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries = append(s.entries, &domain.ScheduleEntry{
		ID:            s.nextID,
		EquipmentID:   equipmentID,
		EndDatetime:   end,
		StartDatetime: end,
	})
}

func (s *ScheduleStore) LastEndTime(ctx context.Context, tenantID string, equipmentID int64) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *time.Time
	for _, e := range s.entries {
		if e.EquipmentID != equipmentID {
			continue
		}
		if last == nil || e.EndDatetime.After(*last) {
			end := e.EndDatetime
			last = &end
		}
	}
	return last, nil
}

func (s *ScheduleStore) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	stored := *entry
	s.entries = append(s.entries, &stored)
	return nil
}

func (s *ScheduleStore) ListByOrder(ctx context.Context, tenantID string, orderID int64) ([]*domain.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.ScheduleEntry, 0)
	for _, e := range s.entries {
		if e.OrderID == orderID && e.TenantID == tenantID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDatetime.Before(out[j].StartDatetime) })
	return out, nil
}
