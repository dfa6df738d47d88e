package ports

import (
	"context"
	"production-scheduler-service/internal/domain"
)

// Contract for retrieving a product's manufacturing steps.
type RoutingProvider interface {
	// Return the product's routing steps sorted by ascending sequence
	// order. An empty slice means the product has no routing defined.
	StepsForProduct(ctx context.Context, tenantID string, productID int64) ([]domain.RoutingStep, error)
}
