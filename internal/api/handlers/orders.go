package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"production-scheduler-service/internal/api/dto"
	"production-scheduler-service/internal/calendar"
	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/platform/obs"
	"production-scheduler-service/internal/ports"
	"production-scheduler-service/internal/services"
)

// OrderHandler exposes order CRUD plus the scheduling operation that turns
// an order into committed schedule entries.
type OrderHandler struct {
	Orders    ports.OrderRepository
	Routings  ports.RoutingProvider
	Equipment ports.EquipmentMembership
	Schedules ports.ScheduleRepository
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		writeError(w, r, http.StatusBadRequest, "order_number is required")
		return
	}
	if req.ProductID < 1 {
		writeError(w, r, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, "quantity must be positive")
		return
	}

	o := &domain.Order{
		TenantID:     obs.Tenant(r.Context()),
		OrderNumber:  req.OrderNumber,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		DeadlineDate: req.DeadlineDate,
	}
	if err := h.Orders.CreateOrder(r.Context(), o); err != nil {
		log.Printf("create order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, orderResponse(o))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListOrders(r.Context(), obs.Tenant(r.Context()))
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		res.Orders = append(res.Orders, orderResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.Orders.GetOrder(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("get order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, orderResponse(o))
}

func (h *OrderHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.OrderPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, "quantity must be positive")
		return
	}

	o, err := h.Orders.UpdateOrder(r.Context(), obs.Tenant(r.Context()), id, ports.OrderUpdate{
		OrderNumber:  req.OrderNumber,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		DeadlineDate: req.DeadlineDate,
	})
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("update order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, orderResponse(o))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Orders.DeleteOrder(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("delete order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// Schedule runs the calendar-aware scheduler for an order and returns the
// committed entries, one per routing step, in step-sequence order.
func (h *OrderHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ScheduleRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	tenant := obs.Tenant(r.Context())
	o, err := h.Orders.GetOrder(r.Context(), tenant, id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("schedule order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	entries, err := services.ScheduleOrder(r.Context(), services.ScheduleOrderRequest{
		TenantID:  tenant,
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		StartTime: req.StartTime,
	}, h.Routings, h.Equipment, h.Schedules)
	if err != nil {
		// Master-data defects are the caller's to fix; anything else is ours.
		switch {
		case errors.Is(err, services.ErrNoRoutingSteps),
			errors.Is(err, services.ErrNoEquipmentInGroup),
			errors.Is(err, calendar.ErrDurationExceedsCapacity):
			log.Printf("schedule order rejected: %v", err)
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("schedule order failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, entriesResponse(entries))
}

// ListSchedule returns an order's committed entries sorted by start time.
func (h *OrderHandler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Schedules.ListByOrder(r.Context(), obs.Tenant(r.Context()), id)
	if err != nil {
		log.Printf("list schedule failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, entriesResponse(entries))
}

func orderResponse(o *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		DeadlineDate: o.DeadlineDate,
	}
}

func entriesResponse(entries []*domain.ScheduleEntry) dto.ListScheduleEntriesResponse {
	res := dto.ListScheduleEntriesResponse{Entries: make([]dto.ScheduleEntryResponse, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, dto.ScheduleEntryResponse{
			ID:            e.ID,
			OrderID:       e.OrderID,
			RoutingStepID: e.RoutingStepID,
			EquipmentID:   e.EquipmentID,
			StartDatetime: e.StartDatetime,
			EndDatetime:   e.EndDatetime,
		})
	}
	return res
}
