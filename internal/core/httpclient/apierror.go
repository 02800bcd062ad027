package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// fallbackMessage is surfaced when an upstream error body carries nothing usable.
const fallbackMessage = "Something went wrong"

// APIError is a non-2xx response from the upstream API, carried unchanged to
// the caller. Nothing in the portal retries; the view layer decides what to
// show based on StatusCode and Message.
type APIError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int
	// Message is the extracted user-facing message.
	Message string
	// Body is the raw response body, kept for logging.
	Body []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream API returned %d: %s", e.StatusCode, e.Message)
}

// ErrorFromResponse builds an APIError from a non-2xx response, extracting a
// display message in fixed order: a structured "message" field, then a
// generic "error" field, then a fallback string.
func ErrorFromResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := fallbackMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Error != "":
			message = payload.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       body,
	}
}
