package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"production-scheduler-service/internal/api/dto"
	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/platform/obs"
	"production-scheduler-service/internal/ports"
)

// ProductHandler exposes product master data and the nested routing steps.
type ProductHandler struct {
	Repo ports.ProductRepository
	// Cache, when set, is told about routing changes so scheduling runs
	// never act on stale steps longer than necessary.
	Cache ports.MasterCacheInvalidator
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	p := &domain.Product{
		TenantID: obs.Tenant(r.Context()),
		Name:     req.Name,
		Code:     req.Code,
		Type:     req.Type,
	}
	if err := h.Repo.CreateProduct(r.Context(), p); err != nil {
		log.Printf("create product failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, productResponse(p))
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Repo.ListProducts(r.Context(), obs.Tenant(r.Context()))
	if err != nil {
		log.Printf("list products failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListProductsResponse{Products: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		res.Products = append(res.Products, productResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.Repo.GetProduct(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("get product failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, productResponse(p))
}

func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ProductPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := h.Repo.UpdateProduct(r.Context(), obs.Tenant(r.Context()), id, ports.ProductUpdate{
		Name: req.Name,
		Code: req.Code,
		Type: req.Type,
	})
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("update product failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, productResponse(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Repo.DeleteProduct(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("delete product failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ProductHandler) CreateRouting(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.RoutingStepRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SequenceOrder < 1 {
		writeError(w, r, http.StatusBadRequest, "sequence_order must be positive")
		return
	}
	if req.EquipmentGroupID < 1 {
		writeError(w, r, http.StatusBadRequest, "equipment_group_id is required")
		return
	}
	if req.SetupTimeSeconds < 0 || req.UnitTimeSeconds < 0 {
		writeError(w, r, http.StatusBadRequest, "durations must be non-negative")
		return
	}

	tenant := obs.Tenant(r.Context())
	if _, err := h.Repo.GetProduct(r.Context(), tenant, productID); errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		log.Printf("create routing step failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	step := &domain.RoutingStep{
		TenantID:         tenant,
		ProductID:        productID,
		SequenceOrder:    req.SequenceOrder,
		ProcessName:      req.ProcessName,
		EquipmentGroupID: req.EquipmentGroupID,
		SetupTimeSeconds: req.SetupTimeSeconds,
		UnitTimeSeconds:  req.UnitTimeSeconds,
	}
	if err := h.Repo.CreateRoutingStep(r.Context(), step); err != nil {
		log.Printf("create routing step failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		h.Cache.InvalidateProduct(r.Context(), tenant, productID)
	}

	writeJSON(w, r, http.StatusCreated, routingStepResponse(step))
}

func (h *ProductHandler) ListRoutings(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	steps, err := h.Repo.StepsForProduct(r.Context(), obs.Tenant(r.Context()), productID)
	if err != nil {
		log.Printf("list routing steps failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutingStepsResponse{Steps: make([]dto.RoutingStepResponse, 0, len(steps))}
	for i := range steps {
		res.Steps = append(res.Steps, routingStepResponse(&steps[i]))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProductHandler) DeleteRouting(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	routingID, err := pathID(r, "routingID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tenant := obs.Tenant(r.Context())
	err = h.Repo.DeleteRoutingStep(r.Context(), tenant, routingID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("delete routing step failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		h.Cache.InvalidateProduct(r.Context(), tenant, productID)
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func productResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{ID: p.ID, Name: p.Name, Code: p.Code, Type: p.Type}
}

func routingStepResponse(s *domain.RoutingStep) dto.RoutingStepResponse {
	return dto.RoutingStepResponse{
		ID:               s.ID,
		ProductID:        s.ProductID,
		SequenceOrder:    s.SequenceOrder,
		ProcessName:      s.ProcessName,
		EquipmentGroupID: s.EquipmentGroupID,
		SetupTimeSeconds: s.SetupTimeSeconds,
		UnitTimeSeconds:  s.UnitTimeSeconds,
	}
}
