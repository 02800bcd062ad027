package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shipment-portal/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockShipmentAPI is a hand-written ShipmentAPI mock with call counting.
type mockShipmentAPI struct {
	trackFn  func(ctx context.Context, trackingID string) (*domain.Shipment, error)
	createFn func(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error)
	updateFn func(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error)
	listFn   func(ctx context.Context) ([]domain.Shipment, error)

	trackCalls  int32
	createCalls int32
	updateCalls int32
	listCalls   int32
}

func (m *mockShipmentAPI) Track(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.trackCalls, 1)
	return m.trackFn(ctx, trackingID)
}

func (m *mockShipmentAPI) Create(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.createCalls, 1)
	return m.createFn(ctx, origin, destination, estimatedDeliveryDate)
}

func (m *mockShipmentAPI) UpdateStatus(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.updateCalls, 1)
	return m.updateFn(ctx, trackingID, status, location)
}

func (m *mockShipmentAPI) AdminCreatedShipments(ctx context.Context) ([]domain.Shipment, error) {
	atomic.AddInt32(&m.listCalls, 1)
	return m.listFn(ctx)
}

func shipmentWithStatus(trackingID string, status domain.Status) *domain.Shipment {
	return &domain.Shipment{
		TrackingID:    trackingID,
		Origin:        "Bonn",
		Destination:   "Leipzig",
		CurrentStatus: status,
	}
}

// TestUpdateStatus_IllegalTransitionRejectedBeforeNetwork verifies the
// client-side guard: the update request never reaches the upstream when the
// target is not an allowed next status.
func TestUpdateStatus_IllegalTransitionRejectedBeforeNetwork(t *testing.T) {
	api := &mockShipmentAPI{
		trackFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipmentWithStatus(trackingID, domain.StatusInTransit), nil
		},
	}
	svc := NewShipmentService(api)

	// Delivered is not in {ArrivedAtFacility, Delayed, Exception}.
	updated, err := svc.UpdateStatus(context.Background(), "DHL905514", domain.StatusDelivered, "Frankfurt")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.EqualValues(t, 0, atomic.LoadInt32(&api.updateCalls))
}

// TestUpdateStatus_SameStatusRejected verifies that re-submitting the current
// status is treated as disallowed, not as a no-op success.
func TestUpdateStatus_SameStatusRejected(t *testing.T) {
	api := &mockShipmentAPI{
		trackFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipmentWithStatus(trackingID, domain.StatusInTransit), nil
		},
	}
	svc := NewShipmentService(api)

	_, err := svc.UpdateStatus(context.Background(), "DHL905514", domain.StatusInTransit, "Frankfurt")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.EqualValues(t, 0, atomic.LoadInt32(&api.updateCalls))
}

// TestUpdateStatus_DeliveredIsTerminal verifies that a delivered shipment
// rejects every further update.
func TestUpdateStatus_DeliveredIsTerminal(t *testing.T) {
	api := &mockShipmentAPI{
		trackFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipmentWithStatus(trackingID, domain.StatusDelivered), nil
		},
	}
	svc := NewShipmentService(api)

	for _, next := range []domain.Status{domain.StatusDelivered, domain.StatusDelayed, domain.StatusCreated} {
		_, err := svc.UpdateStatus(context.Background(), "DHL905514", next, "Frankfurt")
		assert.ErrorIs(t, err, ErrShipmentDelivered, "target %s", next.Label())
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&api.updateCalls))
}

// TestUpdateStatus_AllowedTransition verifies the happy path: the canonical
// integer goes upstream, the result is memoized as last viewed.
func TestUpdateStatus_AllowedTransition(t *testing.T) {
	api := &mockShipmentAPI{
		trackFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipmentWithStatus(trackingID, domain.StatusInTransit), nil
		},
		updateFn: func(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error) {
			assert.Equal(t, domain.StatusArrivedAtFacility, status)
			assert.Equal(t, "Frankfurt", location)
			return shipmentWithStatus(trackingID, status), nil
		},
	}
	svc := NewShipmentService(api)

	updated, err := svc.UpdateStatus(context.Background(), "DHL905514", domain.StatusArrivedAtFacility, "Frankfurt")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArrivedAtFacility, updated.CurrentStatus)

	id, last, ok := svc.LastViewed()
	require.True(t, ok)
	assert.Equal(t, "DHL905514", id)
	assert.Equal(t, updated, last)
}

// TestUpdateStatus_UpstreamFailurePassesThrough verifies that transport
// failures are surfaced unchanged with no retry.
func TestUpdateStatus_UpstreamFailurePassesThrough(t *testing.T) {
	upstreamErr := errors.New("upstream API returned 500: Something went wrong")
	api := &mockShipmentAPI{
		trackFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipmentWithStatus(trackingID, domain.StatusOutForDelivery), nil
		},
		updateFn: func(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error) {
			return nil, upstreamErr
		},
	}
	svc := NewShipmentService(api)

	_, err := svc.UpdateStatus(context.Background(), "DHL905514", domain.StatusDelivered, "Leipzig")
	assert.ErrorIs(t, err, upstreamErr)
	assert.EqualValues(t, 1, atomic.LoadInt32(&api.updateCalls))

	_, _, ok := svc.LastViewed()
	assert.False(t, ok)
}

// TestAdminCreatedShipments_SingleFlight verifies that concurrent callers
// before the first response share exactly one upstream request.
func TestAdminCreatedShipments_SingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	api := &mockShipmentAPI{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			started <- struct{}{}
			<-release
			return []domain.Shipment{*shipmentWithStatus("DHL000001", domain.StatusCreated)}, nil
		},
	}
	svc := NewShipmentService(api)

	var wg sync.WaitGroup
	results := make([][]domain.Shipment, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.AdminCreatedShipments(context.Background())
	}()

	// First request is now in flight; a second caller must join it rather
	// than issue its own.
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.AdminCreatedShipments(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.EqualValues(t, 1, atomic.LoadInt32(&api.listCalls))
}

// TestAdminCreatedShipments_CachedUntilCleared verifies the explicit
// invalidation path: cached result is reused, ClearAdminCache forces a fresh
// request.
func TestAdminCreatedShipments_CachedUntilCleared(t *testing.T) {
	api := &mockShipmentAPI{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			return []domain.Shipment{*shipmentWithStatus("DHL000001", domain.StatusCreated)}, nil
		},
	}
	svc := NewShipmentService(api)
	ctx := context.Background()

	_, err := svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	_, err = svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&api.listCalls))

	svc.ClearAdminCache()

	_, err = svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.listCalls))
}

// TestAdminCreatedShipments_ClearDuringFlightIsNotUndone verifies that an
// invalidation overlapping an in-flight fetch sticks: the fetch's result is
// returned to its callers but not cached, so the next call issues a fresh
// request instead of serving the pre-invalidation listing.
func TestAdminCreatedShipments_ClearDuringFlightIsNotUndone(t *testing.T) {
	// Buffered: the fetch runs a second time after release is closed and must
	// not block on its start signal.
	started := make(chan struct{}, 2)
	release := make(chan struct{})

	api := &mockShipmentAPI{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			started <- struct{}{}
			<-release
			return []domain.Shipment{*shipmentWithStatus("DHL000001", domain.StatusCreated)}, nil
		},
	}
	svc := NewShipmentService(api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		shipments, err := svc.AdminCreatedShipments(context.Background())
		assert.NoError(t, err)
		assert.Len(t, shipments, 1)
	}()

	// The fetch is in flight; a mutation now invalidates the listing.
	<-started
	svc.ClearAdminCache()
	close(release)
	wg.Wait()

	_, err := svc.AdminCreatedShipments(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.listCalls))
}

// TestAdminCreatedShipments_FailureLeavesNothingCached verifies
// invalidate-on-failure: after a failed fetch the next call issues a fresh
// request.
func TestAdminCreatedShipments_FailureLeavesNothingCached(t *testing.T) {
	failing := true
	api := &mockShipmentAPI{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			if failing {
				return nil, errors.New("upstream down")
			}
			return []domain.Shipment{}, nil
		},
	}
	svc := NewShipmentService(api)
	ctx := context.Background()

	_, err := svc.AdminCreatedShipments(ctx)
	require.Error(t, err)

	failing = false
	_, err = svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.listCalls))
}

// TestMutationsInvalidateAdminCache verifies that a successful create or
// update clears the cached listing via the update notification.
func TestMutationsInvalidateAdminCache(t *testing.T) {
	api := &mockShipmentAPI{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			return []domain.Shipment{}, nil
		},
		createFn: func(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error) {
			return shipmentWithStatus("DHL123456", domain.StatusCreated), nil
		},
	}
	svc := NewShipmentService(api)
	ctx := context.Background()

	_, err := svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&api.listCalls))

	_, err = svc.Create(ctx, "Bonn", "Leipzig", "2027-01-15")
	require.NoError(t, err)

	_, err = svc.AdminCreatedShipments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.listCalls))
}

// TestNotifier_NoReplay verifies that late subscribers miss past
// notifications and unsubscribed callbacks stop firing.
func TestNotifier_NoReplay(t *testing.T) {
	api := &mockShipmentAPI{
		createFn: func(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error) {
			return shipmentWithStatus("DHL123456", domain.StatusCreated), nil
		},
	}
	svc := NewShipmentService(api)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Bonn", "Leipzig", "2027-01-15")
	require.NoError(t, err)

	// Subscribing after the fact delivers nothing.
	var count int32
	unsubscribe := svc.SubscribeShipmentUpdated(func() {
		atomic.AddInt32(&count, 1)
	})
	assert.EqualValues(t, 0, atomic.LoadInt32(&count))

	_, err = svc.Create(ctx, "Bonn", "Leipzig", "2027-01-15")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&count))

	unsubscribe()
	svc.NotifyShipmentUpdated()
	assert.EqualValues(t, 1, atomic.LoadInt32(&count))
}

// TestLastViewed covers the single-slot latest-value-wins memo.
func TestLastViewed(t *testing.T) {
	svc := NewShipmentService(&mockShipmentAPI{})

	_, _, ok := svc.LastViewed()
	assert.False(t, ok)

	first := shipmentWithStatus("DHL000001", domain.StatusCreated)
	second := shipmentWithStatus("DHL000002", domain.StatusInTransit)

	svc.SetLastViewed("DHL000001", first)
	svc.SetLastViewed("DHL000002", second)

	id, shipment, ok := svc.LastViewed()
	require.True(t, ok)
	assert.Equal(t, "DHL000002", id)
	assert.Equal(t, second, shipment)

	// The slot replays its current value to any number of readers.
	id, shipment, ok = svc.LastViewed()
	require.True(t, ok)
	assert.Equal(t, "DHL000002", id)
	assert.Equal(t, second, shipment)

	svc.ClearLastViewed()
	_, _, ok = svc.LastViewed()
	assert.False(t, ok)
}
