package ports

import "context"

// MasterCacheInvalidator is implemented by caching layers that need to be
// told when routing or membership master data changes. Invalidation is
// best-effort: a stale entry expires on its own TTL anyway.
type MasterCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, tenantID string, productID int64)
	InvalidateGroup(ctx context.Context, tenantID string, groupID int64)
}
