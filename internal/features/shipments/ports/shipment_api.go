package ports

import (
	"context"

	"shipment-portal/internal/features/shipments/domain"
)

// ShipmentAPI is the contract with the upstream shipment REST API. Each call
// issues exactly one request; transport failures are propagated unchanged as
// *httpclient.APIError and never retried.
type ShipmentAPI interface {
	// Track fetches a single shipment by tracking ID.
	Track(ctx context.Context, trackingID string) (*domain.Shipment, error)

	// Create registers a new shipment. The backend forces the initial status
	// to Created and starts with an empty milestone list.
	Create(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error)

	// UpdateStatus appends one milestone and advances the current status.
	UpdateStatus(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error)

	// AdminCreatedShipments lists every shipment, admin-only upstream.
	AdminCreatedShipments(ctx context.Context) ([]domain.Shipment, error)
}
