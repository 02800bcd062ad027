package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shipment-portal/internal/features/shipments/domain"
	"shipment-portal/internal/features/shipments/ports"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrShipmentDelivered is returned when updating a delivered shipment;
	// Delivered is terminal and admits nothing, not even itself.
	ErrShipmentDelivered = errors.New("shipment already delivered")
	// ErrInvalidTransition is returned when the requested status is not an
	// allowed next status for the shipment's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// adminCacheKey is the single-flight key for the admin listing; there is one
// shared listing, so one key.
const adminCacheKey = "admin-shipments"

// ShipmentService orchestrates portal operations against the upstream API.
// It guards status transitions before any network call, shares one in-flight
// request for the admin listing, and broadcasts a notification after every
// successful mutation. The upstream remains the final authority; the guard
// here is advisory, not a security boundary.
type ShipmentService struct {
	api ports.ShipmentAPI

	group singleflight.Group

	mu           sync.Mutex
	adminCache   []domain.Shipment
	adminCached  bool
	adminGen     uint64
	lastViewedID string
	lastViewed   *domain.Shipment

	updated *Notifier
}

// NewShipmentService creates a new ShipmentService. The service subscribes to
// its own update notifications so that every create/update invalidates the
// admin listing cache.
func NewShipmentService(api ports.ShipmentAPI) *ShipmentService {
	s := &ShipmentService{
		api:     api,
		updated: NewNotifier(),
	}
	s.updated.Subscribe(s.ClearAdminCache)
	return s
}

// Track fetches a single shipment. Input validation happens in the view
// layer; transport failures pass through unchanged.
func (s *ShipmentService) Track(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	return s.api.Track(ctx, trackingID)
}

// Create registers a new shipment and notifies subscribers on success.
func (s *ShipmentService) Create(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error) {
	shipment, err := s.api.Create(ctx, origin, destination, estimatedDeliveryDate)
	if err != nil {
		return nil, err
	}

	s.NotifyShipmentUpdated()
	return shipment, nil
}

// UpdateStatus fetches the shipment's current status, rejects illegal
// transitions before any update call reaches the upstream, then submits the
// change. On success the result becomes the last-viewed shipment and
// subscribers are notified.
func (s *ShipmentService) UpdateStatus(ctx context.Context, trackingID string, next domain.Status, location string) (*domain.Shipment, error) {
	current, err := s.api.Track(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if current.CurrentStatus.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrShipmentDelivered, trackingID)
	}
	if !domain.CanTransition(current.CurrentStatus, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition,
			current.CurrentStatus.Label(), next.Label())
	}

	updated, err := s.api.UpdateStatus(ctx, trackingID, next, location)
	if err != nil {
		return nil, err
	}

	s.SetLastViewed(trackingID, updated)
	s.NotifyShipmentUpdated()
	return updated, nil
}

// AdminCreatedShipments returns the admin listing through a single-flight
// cache: concurrent callers before the first response share one in-flight
// request, a failed request leaves nothing cached, and a successful result is
// served from memory until the cache is cleared.
func (s *ShipmentService) AdminCreatedShipments(ctx context.Context) ([]domain.Shipment, error) {
	s.mu.Lock()
	if s.adminCached {
		cached := s.adminCache
		s.mu.Unlock()
		return cached, nil
	}
	gen := s.adminGen
	s.mu.Unlock()

	result, err, _ := s.group.Do(adminCacheKey, func() (interface{}, error) {
		shipments, err := s.api.AdminCreatedShipments(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// An invalidation that overlapped this fetch bumped the generation;
		// the result is stale and must not be cached, only returned.
		if s.adminGen == gen {
			s.adminCache = shipments
			s.adminCached = true
		}
		s.mu.Unlock()
		return shipments, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Shipment), nil
}

// ClearAdminCache drops the cached admin listing; the next call fetches a
// fresh one.
func (s *ShipmentService) ClearAdminCache() {
	s.mu.Lock()
	s.adminCache = nil
	s.adminCached = false
	s.adminGen++
	s.mu.Unlock()

	s.group.Forget(adminCacheKey)
}

// NotifyShipmentUpdated broadcasts to current subscribers, fire-and-forget.
func (s *ShipmentService) NotifyShipmentUpdated() {
	s.updated.Notify()
}

// SubscribeShipmentUpdated registers fn for future update notifications and
// returns an unsubscribe function. There is no replay: notifications sent
// before subscribing are not delivered.
func (s *ShipmentService) SubscribeShipmentUpdated(fn func()) func() {
	return s.updated.Subscribe(fn)
}

// SetLastViewed stores the most recently viewed shipment. Latest value wins.
func (s *ShipmentService) SetLastViewed(trackingID string, shipment *domain.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastViewedID = trackingID
	s.lastViewed = shipment
}

// LastViewed returns the current value of the last-viewed slot. Unlike the
// update notifications this is current-value storage, not a queue: whoever
// asks gets the most recent value, whenever it was set.
func (s *ShipmentService) LastViewed() (string, *domain.Shipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastViewed == nil {
		return "", nil, false
	}
	return s.lastViewedID, s.lastViewed, true
}

// ClearLastViewed empties the last-viewed slot.
func (s *ShipmentService) ClearLastViewed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastViewedID = ""
	s.lastViewed = nil
}
