package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/ports"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestScheduleRepositoryRoundTrip(t *testing.T) {
	repo := NewSqliteScheduleRepository(newTestDB(t))
	ctx := context.Background()

	last, err := repo.LastEndTime(ctx, "t1", 7)
	if err != nil {
		t.Fatalf("LastEndTime on empty table: %v", err)
	}
	if last != nil {
		t.Fatalf("LastEndTime on empty table = %v, want nil", last)
	}

	// Fractional seconds must survive the text round trip.
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(130*time.Minute + 30*time.Second + 500*time.Millisecond)
	entry := &domain.ScheduleEntry{
		TenantID:      "t1",
		OrderID:       1,
		RoutingStepID: 2,
		EquipmentID:   7,
		StartDatetime: start,
		EndDatetime:   end,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("CreateEntry did not assign an id")
	}

	later := end.Add(2 * time.Hour)
	if err := repo.CreateEntry(ctx, &domain.ScheduleEntry{
		TenantID: "t1", OrderID: 1, RoutingStepID: 3, EquipmentID: 7,
		StartDatetime: end, EndDatetime: later,
	}); err != nil {
		t.Fatalf("CreateEntry second: %v", err)
	}

	last, err = repo.LastEndTime(ctx, "t1", 7)
	if err != nil {
		t.Fatalf("LastEndTime: %v", err)
	}
	if last == nil || !last.Equal(later) {
		t.Errorf("LastEndTime = %v, want %v", last, later)
	}

	// Other tenants and other machines are invisible.
	if last, _ := repo.LastEndTime(ctx, "t2", 7); last != nil {
		t.Errorf("LastEndTime for other tenant = %v, want nil", last)
	}
	if last, _ := repo.LastEndTime(ctx, "t1", 8); last != nil {
		t.Errorf("LastEndTime for other machine = %v, want nil", last)
	}

	entries, err := repo.ListByOrder(ctx, "t1", 1)
	if err != nil {
		t.Fatalf("ListByOrder: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListByOrder returned %d entries, want 2", len(entries))
	}
	if !entries[0].StartDatetime.Equal(start) || !entries[0].EndDatetime.Equal(end) {
		t.Errorf("entry 0 = %v..%v, want %v..%v",
			entries[0].StartDatetime, entries[0].EndDatetime, start, end)
	}
	if !entries[1].StartDatetime.Equal(end) {
		t.Errorf("entries not ordered by start: second starts at %v", entries[1].StartDatetime)
	}
}

func TestSeedFromJSONIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	path := filepath.Join("..", "..", "..", "data", "scenarios", "standard_demo.json")

	for i := 0; i < 2; i++ {
		if err := SeedFromJSON(db, path); err != nil {
			t.Fatalf("SeedFromJSON run %d: %v", i+1, err)
		}
	}

	var groups int
	if err := db.QueryRow(`SELECT COUNT(*) FROM equipment_groups WHERE tenant_id = 'demo-tenant';`).Scan(&groups); err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if groups != 3 {
		t.Errorf("seeded %d groups, want 3 (second run must not duplicate)", groups)
	}

	products := NewSqliteProductRepository(db)
	all, err := products.ListProducts(context.Background(), "demo-tenant")
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("seeded %d products, want 2", len(all))
	}

	steps, err := products.StepsForProduct(context.Background(), "demo-tenant", all[0].ID)
	if err != nil {
		t.Fatalf("steps for seeded product: %v", err)
	}
	if len(steps) == 0 {
		t.Fatal("seeded product has no routing steps")
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].SequenceOrder < steps[i-1].SequenceOrder {
			t.Fatalf("steps not ordered by sequence: %v", steps)
		}
	}
}

func TestGroupMembershipOrderingAndDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteEquipmentRepository(db)
	ctx := context.Background()

	group := &domain.EquipmentGroup{TenantID: "t1", Name: "Mills"}
	if err := repo.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	var ids []int64
	for _, name := range []string{"Mill-03", "Mill-01", "Mill-02"} {
		eq := &domain.Equipment{TenantID: "t1", Name: name}
		if err := repo.CreateEquipment(ctx, eq); err != nil {
			t.Fatalf("CreateEquipment %q: %v", name, err)
		}
		ids = append(ids, eq.ID)
		if err := repo.AddGroupMember(ctx, "t1", group.ID, eq.ID); err != nil {
			t.Fatalf("AddGroupMember %q: %v", name, err)
		}
	}

	if err := repo.AddGroupMember(ctx, "t1", group.ID, ids[0]); !errors.Is(err, ports.ErrDuplicateMember) {
		t.Fatalf("re-adding member: err = %v, want ErrDuplicateMember", err)
	}

	members, err := repo.MembersOfGroup(ctx, "t1", group.ID)
	if err != nil {
		t.Fatalf("MembersOfGroup: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}
	for i := 1; i < len(members); i++ {
		if members[i] <= members[i-1] {
			t.Fatalf("members not in ascending id order: %v", members)
		}
	}

	// Membership reads are tenant scoped.
	members, err = repo.MembersOfGroup(ctx, "t2", group.ID)
	if err != nil {
		t.Fatalf("MembersOfGroup other tenant: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("other tenant sees %d members, want 0", len(members))
	}
}
