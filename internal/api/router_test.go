package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"production-scheduler-service/internal/adapters/repositories"
	"production-scheduler-service/internal/api"
	"production-scheduler-service/internal/api/dto"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	productRepo := repositories.NewSqliteProductRepository(db)
	equipmentRepo := repositories.NewSqliteEquipmentRepository(db)

	return api.NewRouter(api.Deps{
		Products:   productRepo,
		Equipment:  equipmentRepo,
		Orders:     repositories.NewSqliteOrderRepository(db),
		Schedules:  repositories.NewSqliteScheduleRepository(db),
		Routings:   productRepo,
		Membership: equipmentRepo,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Tenant-ID", "t1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestScheduleOrderEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/equipment-groups", dto.EquipmentGroupRequest{Name: "Mills"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: status %d body %s", rec.Code, rec.Body.String())
	}
	group := decode[dto.EquipmentGroupResponse](t, rec)

	var machineIDs []int64
	for _, name := range []string{"Mill-01", "Mill-02"} {
		rec = doJSON(t, router, http.MethodPost, "/equipment", dto.EquipmentRequest{Name: name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create equipment: status %d", rec.Code)
		}
		machine := decode[dto.EquipmentResponse](t, rec)
		machineIDs = append(machineIDs, machine.ID)

		rec = doJSON(t, router, http.MethodPost,
			"/equipment-groups/"+itoa(group.ID)+"/members",
			dto.GroupMemberRequest{EquipmentID: machine.ID})
		if rec.Code != http.StatusCreated {
			t.Fatalf("add member: status %d body %s", rec.Code, rec.Body.String())
		}
	}

	// Re-adding a member conflicts.
	rec = doJSON(t, router, http.MethodPost,
		"/equipment-groups/"+itoa(group.ID)+"/members",
		dto.GroupMemberRequest{EquipmentID: machineIDs[0]})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate member: status %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "Drive Shaft", Code: "DS-100"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: status %d", rec.Code)
	}
	product := decode[dto.ProductResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/products/"+itoa(product.ID)+"/routings", dto.RoutingStepRequest{
		SequenceOrder:    1,
		ProcessName:      "Milling",
		EquipmentGroupID: group.ID,
		SetupTimeSeconds: 1800,
		UnitTimeSeconds:  600,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create routing: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/orders", dto.OrderRequest{
		OrderNumber: "ORD-1", ProductID: product.ID, Quantity: 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: status %d", rec.Code)
	}
	order := decode[dto.OrderResponse](t, rec)

	start := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC) // Monday 08:00
	rec = doJSON(t, router, http.MethodPost, "/orders/"+itoa(order.ID)+"/schedule", dto.ScheduleRequest{StartTime: &start})
	if rec.Code != http.StatusCreated {
		t.Fatalf("schedule: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.ListScheduleEntriesResponse](t, rec)

	if len(created.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(created.Entries))
	}
	e := created.Entries[0]
	if e.EquipmentID != machineIDs[0] {
		t.Errorf("equipment = %d, want first machine %d (tie-break)", e.EquipmentID, machineIDs[0])
	}
	wantStart := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	if !e.StartDatetime.Equal(wantStart) {
		t.Errorf("start = %v, want Mon 09:00", e.StartDatetime)
	}
	if !e.EndDatetime.Equal(wantStart.Add(130 * time.Minute)) {
		t.Errorf("end = %v, want Mon 11:10", e.EndDatetime)
	}

	rec = doJSON(t, router, http.MethodGet, "/orders/"+itoa(order.ID)+"/schedule", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list schedule: status %d", rec.Code)
	}
	listed := decode[dto.ListScheduleEntriesResponse](t, rec)
	if len(listed.Entries) != 1 || listed.Entries[0].ID != e.ID {
		t.Errorf("listed entries %+v, want the committed entry %d", listed.Entries, e.ID)
	}
}

func TestScheduleOrderWithoutRoutingsRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "No Routing"})
	product := decode[dto.ProductResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/orders", dto.OrderRequest{
		OrderNumber: "ORD-2", ProductID: product.ID, Quantity: 1,
	})
	order := decode[dto.OrderResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/orders/"+itoa(order.ID)+"/schedule", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("schedule without routings: status %d, want 422", rec.Code)
	}
}

func TestTenantHeaderRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing tenant header: status %d, want 400", rec.Code)
	}

	// Health stays reachable without a tenant.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d, want 200", rec.Code)
	}
}

func TestTenantsAreIsolated(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "Mine"})
	product := decode[dto.ProductResponse](t, rec)

	req := httptest.NewRequest(http.MethodGet, "/products/"+itoa(product.ID), nil)
	req.Header.Set("X-Tenant-ID", "someone-else")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	if other.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read: status %d, want 404", other.Code)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
