package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-portal/internal/core/config"
	"shipment-portal/internal/core/httpclient"
	"shipment-portal/internal/features/shipments/domain"
)

// RESTAdapter implements the ShipmentAPI port against the upstream shipment
// REST API.
type RESTAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the upstream base URL including the /api prefix.
	baseURL string
}

// NewRESTAdapter creates a new instance of RESTAdapter.
func NewRESTAdapter(cfg config.ShipmentAPIConfig) *RESTAdapter {
	return &RESTAdapter{
		client:  httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		baseURL: strings.TrimRight(cfg.URL, "/") + "/api",
	}
}

// Track fetches a shipment by tracking ID.
func (a *RESTAdapter) Track(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	path := "/shipment/" + url.PathEscape(trackingID)
	if err := a.do(ctx, http.MethodGet, path, nil, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// createRequest is the upstream payload for shipment creation.
type createRequest struct {
	Origin                string `json:"origin"`
	Destination           string `json:"destination"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

// Create registers a new shipment upstream.
func (a *RESTAdapter) Create(ctx context.Context, origin, destination, estimatedDeliveryDate string) (*domain.Shipment, error) {
	payload := createRequest{
		Origin:                origin,
		Destination:           destination,
		EstimatedDeliveryDate: estimatedDeliveryDate,
	}

	var shipment domain.Shipment
	if err := a.do(ctx, http.MethodPost, "/shipment/create", payload, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// updateStatusRequest is the upstream payload for a status update. The status
// is always sent in its canonical numeric form.
type updateStatusRequest struct {
	Status   int    `json:"status"`
	Location string `json:"location"`
}

// UpdateStatus submits one status change for a shipment.
func (a *RESTAdapter) UpdateStatus(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.Shipment, error) {
	payload := updateStatusRequest{
		Status:   int(status),
		Location: location,
	}

	var shipment domain.Shipment
	path := "/shipment/" + url.PathEscape(trackingID) + "/status"
	if err := a.do(ctx, http.MethodPut, path, payload, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// AdminCreatedShipments lists all shipments.
func (a *RESTAdapter) AdminCreatedShipments(ctx context.Context) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	if err := a.do(ctx, http.MethodGet, "/shipment/view", nil, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// do issues a single request and decodes the response. Non-2xx responses are
// returned as *httpclient.APIError; there are no retries.
func (a *RESTAdapter) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return httpclient.ErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
