package domain

// transitions is the sole source of truth for the shipment lifecycle.
// Lifecycle statuses advance one step at a time; Delayed and Exception branch
// off from the in-motion statuses and rejoin the lifecycle; Delivered is
// terminal.
var transitions = map[Status][]Status{
	StatusCreated:           {StatusPickedUp},
	StatusPickedUp:          {StatusInTransit},
	StatusInTransit:         {StatusArrivedAtFacility, StatusDelayed, StatusException},
	StatusArrivedAtFacility: {StatusOutForDelivery, StatusDelayed, StatusException},
	StatusOutForDelivery:    {StatusDelivered, StatusDelayed, StatusException},
	StatusDelivered:         {},
	StatusDelayed:           {StatusInTransit, StatusOutForDelivery},
	StatusException:         {StatusInTransit},
}

// AllowedNext returns the statuses reachable from current in one update.
// Unknown statuses have no successors.
func AllowedNext(current Status) []Status {
	allowed := transitions[current]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether a status update from current to next is
// allowed. A request for the current status is never a valid submission, and
// nothing is reachable from Delivered.
func CanTransition(current, next Status) bool {
	if next == current {
		return false
	}
	for _, allowed := range transitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}
