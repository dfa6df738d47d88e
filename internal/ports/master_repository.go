package ports

import (
	"context"
	"errors"

	"production-scheduler-service/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row in the
	// caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMember is returned when a machine is added to a group
	// it already belongs to.
	ErrDuplicateMember = errors.New("equipment already in group")
)

// Partial-update payload for products; nil fields are left unchanged.
type ProductUpdate struct {
	Name *string
	Code *string
	Type *string
}

// Port: master-data access for products and their routing steps.
// Implementations also satisfy RoutingProvider through StepsForProduct.
type ProductRepository interface {
	RoutingProvider

	CreateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context, tenantID string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, tenantID string, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, tenantID string, id int64, upd ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, tenantID string, id int64) error

	CreateRoutingStep(ctx context.Context, s *domain.RoutingStep) error
	DeleteRoutingStep(ctx context.Context, tenantID string, id int64) error
}

// Partial-update payload for equipment; nil fields are left unchanged.
type EquipmentUpdate struct {
	Name *string
	Code *string
}

// Port: master-data access for machines, groups, and group membership.
// Implementations also satisfy EquipmentMembership through MembersOfGroup.
type EquipmentRepository interface {
	EquipmentMembership

	CreateEquipment(ctx context.Context, e *domain.Equipment) error
	ListEquipment(ctx context.Context, tenantID string) ([]*domain.Equipment, error)
	GetEquipment(ctx context.Context, tenantID string, id int64) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, tenantID string, id int64, upd EquipmentUpdate) (*domain.Equipment, error)
	DeleteEquipment(ctx context.Context, tenantID string, id int64) error

	CreateGroup(ctx context.Context, g *domain.EquipmentGroup) error
	ListGroups(ctx context.Context, tenantID string) ([]*domain.EquipmentGroup, error)
	GetGroup(ctx context.Context, tenantID string, id int64) (*domain.EquipmentGroup, error)
	DeleteGroup(ctx context.Context, tenantID string, id int64) error

	AddGroupMember(ctx context.Context, tenantID string, groupID, equipmentID int64) error
}
