package domain

// Milestone is an immutable historical record of one status change.
// Timestamps are passed through exactly as the backend produced them.
type Milestone struct {
	// Status the shipment entered at this point.
	Status Status `json:"status"`
	// Location where the change was recorded.
	Location string `json:"location"`
	// Timestamp of the change, in the backend's wire format.
	Timestamp string `json:"timestamp"`
}

// Shipment is the tracked entity. The backend owns its lifecycle; the portal
// only reads it and submits guarded status updates.
type Shipment struct {
	// TrackingID is the external primary key, immutable once created.
	TrackingID string `json:"trackingId"`
	// Origin is the pickup location.
	Origin string `json:"origin"`
	// Destination is the delivery location.
	Destination string `json:"destination"`
	// EstimatedDeliveryDate is a calendar date (2006-01-02).
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
	// CurrentStatus mirrors the status of the newest milestone once one exists.
	CurrentStatus Status `json:"currentStatus"`
	// Milestones is append-only, oldest first.
	Milestones []Milestone `json:"milestones"`
}

// LastMilestone returns the most recently appended milestone, or nil when the
// shipment has none yet.
func (s *Shipment) LastMilestone() *Milestone {
	if len(s.Milestones) == 0 {
		return nil
	}
	return &s.Milestones[len(s.Milestones)-1]
}
