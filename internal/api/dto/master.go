package dto

type ProductRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}

type ProductPatchRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
	Type *string `json:"type"`
}

type ProductResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type RoutingStepRequest struct {
	SequenceOrder    int     `json:"sequence_order"`
	ProcessName      string  `json:"process_name"`
	EquipmentGroupID int64   `json:"equipment_group_id"`
	SetupTimeSeconds int     `json:"setup_time_seconds"`
	UnitTimeSeconds  float64 `json:"unit_time_seconds"`
}

type RoutingStepResponse struct {
	ID               int64   `json:"id"`
	ProductID        int64   `json:"product_id"`
	SequenceOrder    int     `json:"sequence_order"`
	ProcessName      string  `json:"process_name"`
	EquipmentGroupID int64   `json:"equipment_group_id"`
	SetupTimeSeconds int     `json:"setup_time_seconds"`
	UnitTimeSeconds  float64 `json:"unit_time_seconds"`
}

type ListRoutingStepsResponse struct {
	Steps []RoutingStepResponse `json:"steps"`
}

type EquipmentRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type EquipmentPatchRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

type EquipmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type ListEquipmentResponse struct {
	Equipment []EquipmentResponse `json:"equipment"`
}

type EquipmentGroupRequest struct {
	Name string `json:"name"`
}

type EquipmentGroupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ListEquipmentGroupsResponse struct {
	Groups []EquipmentGroupResponse `json:"groups"`
}

type GroupMemberRequest struct {
	EquipmentID int64 `json:"equipment_id"`
}

type ListGroupMembersResponse struct {
	EquipmentIDs []int64 `json:"equipment_ids"`
}
