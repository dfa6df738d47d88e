package obs

import "context"

const tenantIDKey ctxKey = "tenant_id"

// WithTenant stores the caller's tenant scope in ctx.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// Tenant returns the tenant scope stored in ctx, or "".
func Tenant(ctx context.Context) string {
	t, _ := ctx.Value(tenantIDKey).(string)
	return t
}
