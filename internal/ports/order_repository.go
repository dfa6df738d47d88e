package ports

import (
	"context"

	"production-scheduler-service/internal/domain"
)

// Partial-update payload for orders; nil fields are left unchanged.
type OrderUpdate struct {
	OrderNumber  *string
	ProductID    *int64
	Quantity     *int
	DeadlineDate *string
}

// Port: production order persistence.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	ListOrders(ctx context.Context, tenantID string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, tenantID string, id int64) (*domain.Order, error)
	UpdateOrder(ctx context.Context, tenantID string, id int64, upd OrderUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, tenantID string, id int64) error
}
