package domain

// A single machine on the shop floor. Equipment belongs to zero or more
// equipment groups; the scheduler only ever reads membership.
type Equipment struct {
	ID       int64
	TenantID string
	Name     string
	Code     string
}

// EquipmentGroup is a named pool of interchangeable machines capable of
// performing a given routing step.
type EquipmentGroup struct {
	ID       int64
	TenantID string
	Name     string
}
