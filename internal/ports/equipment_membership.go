package ports

import "context"

// Contract for resolving which machines belong to an equipment group.
type EquipmentMembership interface {
	// Return the equipment ids belonging to the group, sorted ascending.
	// The ordering is part of the contract: the scheduler breaks
	// earliest-start ties by iteration order, so a stable ordering keeps
	// equipment choice reproducible across implementations.
	MembersOfGroup(ctx context.Context, tenantID string, groupID int64) ([]int64, error)
}
