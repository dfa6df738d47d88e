package domain

// A manufactured product defined in master data. Products own an ordered
// list of routing steps describing how they are made.
type Product struct {
	ID       int64
	TenantID string
	Name     string
	Code     string
	Type     string
}
