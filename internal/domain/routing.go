package domain

// RoutingStep is one manufacturing operation in a product's fixed process
// sequence. Sequence numbers are unique per product and totally ordered;
// the scheduler consumes steps as read-only input.
//
// Durations are split into a fixed setup portion and a per-unit portion.
// UnitTimeSeconds may be fractional (e.g. 2.5 seconds per piece).
type RoutingStep struct {
	ID               int64
	TenantID         string
	ProductID        int64
	SequenceOrder    int
	ProcessName      string
	EquipmentGroupID int64
	SetupTimeSeconds int
	UnitTimeSeconds  float64
}

// DurationMinutes computes the total work content for a given quantity,
// in (possibly fractional) minutes: setup plus unit time times quantity.
func (s RoutingStep) DurationMinutes(quantity int) float64 {
	totalSeconds := float64(s.SetupTimeSeconds) + s.UnitTimeSeconds*float64(quantity)
	return totalSeconds / 60
}
