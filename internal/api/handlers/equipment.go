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

// EquipmentHandler exposes machines, groups, and membership.
type EquipmentHandler struct {
	Repo  ports.EquipmentRepository
	Cache ports.MasterCacheInvalidator
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	e := &domain.Equipment{TenantID: obs.Tenant(r.Context()), Name: req.Name, Code: req.Code}
	if err := h.Repo.CreateEquipment(r.Context(), e); err != nil {
		log.Printf("create equipment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, equipmentResponse(e))
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	machines, err := h.Repo.ListEquipment(r.Context(), obs.Tenant(r.Context()))
	if err != nil {
		log.Printf("list equipment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListEquipmentResponse{Equipment: make([]dto.EquipmentResponse, 0, len(machines))}
	for _, e := range machines {
		res.Equipment = append(res.Equipment, equipmentResponse(e))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.Repo.GetEquipment(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("get equipment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, equipmentResponse(e))
}

func (h *EquipmentHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.EquipmentPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	e, err := h.Repo.UpdateEquipment(r.Context(), obs.Tenant(r.Context()), id, ports.EquipmentUpdate{
		Name: req.Name,
		Code: req.Code,
	})
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("update equipment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, equipmentResponse(e))
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Repo.DeleteEquipment(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("delete equipment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EquipmentHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.EquipmentGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	g := &domain.EquipmentGroup{TenantID: obs.Tenant(r.Context()), Name: req.Name}
	if err := h.Repo.CreateGroup(r.Context(), g); err != nil {
		log.Printf("create equipment group failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.EquipmentGroupResponse{ID: g.ID, Name: g.Name})
}

func (h *EquipmentHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Repo.ListGroups(r.Context(), obs.Tenant(r.Context()))
	if err != nil {
		log.Printf("list equipment groups failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListEquipmentGroupsResponse{Groups: make([]dto.EquipmentGroupResponse, 0, len(groups))}
	for _, g := range groups {
		res.Groups = append(res.Groups, dto.EquipmentGroupResponse{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EquipmentHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.Repo.GetGroup(r.Context(), obs.Tenant(r.Context()), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("get equipment group failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EquipmentGroupResponse{ID: g.ID, Name: g.Name})
}

func (h *EquipmentHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tenant := obs.Tenant(r.Context())
	err = h.Repo.DeleteGroup(r.Context(), tenant, id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("delete equipment group failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		h.Cache.InvalidateGroup(r.Context(), tenant, id)
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EquipmentHandler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.GroupMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.EquipmentID < 1 {
		writeError(w, r, http.StatusBadRequest, "equipment_id is required")
		return
	}

	tenant := obs.Tenant(r.Context())
	err = h.Repo.AddGroupMember(r.Context(), tenant, groupID, req.EquipmentID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, ports.ErrDuplicateMember) {
		writeError(w, r, http.StatusConflict, "equipment already in group")
		return
	}
	if err != nil {
		log.Printf("add group member failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		h.Cache.InvalidateGroup(r.Context(), tenant, groupID)
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *EquipmentHandler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.Repo.MembersOfGroup(r.Context(), obs.Tenant(r.Context()), groupID)
	if err != nil {
		log.Printf("list group members failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListGroupMembersResponse{EquipmentIDs: ids})
}

func equipmentResponse(e *domain.Equipment) dto.EquipmentResponse {
	return dto.EquipmentResponse{ID: e.ID, Name: e.Name, Code: e.Code}
}
