package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shipment-portal/internal/core/config"
	"shipment-portal/internal/core/httpclient"
	"shipment-portal/internal/features/auth/domain"
)

// RESTAdapter implements the AuthAPI port against the upstream auth endpoint.
type RESTAdapter struct {
	client  *http.Client
	baseURL string
}

// NewRESTAdapter creates a new instance of RESTAdapter.
func NewRESTAdapter(cfg config.ShipmentAPIConfig) *RESTAdapter {
	return &RESTAdapter{
		client:  httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		baseURL: strings.TrimRight(cfg.URL, "/") + "/api/auth",
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and role.
func (a *RESTAdapter) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	encoded, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/login", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, httpclient.ErrorFromResponse(resp)
	}

	var session domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &session, nil
}
