package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status is the canonical integer form of a shipment's lifecycle state.
// The backend may send it as a number or a string label; every value is
// normalized through Coerce before any comparison.
type Status int

const (
	// The six lifecycle statuses, in strict forward order.
	StatusCreated           Status = 0
	StatusPickedUp          Status = 1
	StatusInTransit         Status = 2
	StatusArrivedAtFacility Status = 3
	StatusOutForDelivery    Status = 4
	StatusDelivered         Status = 5

	// Side-branch statuses, reachable from and returning to lifecycle
	// statuses but not part of the forward order.
	StatusDelayed   Status = 6
	StatusException Status = 7
)

// ErrUnknownStatus is returned when a value cannot be coerced to a Status.
var ErrUnknownStatus = errors.New("unknown shipment status")

var statusLabels = map[Status]string{
	StatusCreated:           "Created",
	StatusPickedUp:          "Picked Up",
	StatusInTransit:         "In Transit",
	StatusArrivedAtFacility: "Arrived at Facility",
	StatusOutForDelivery:    "Out for Delivery",
	StatusDelivered:         "Delivered",
	StatusDelayed:           "Delayed",
	StatusException:         "Exception",
}

// labelValues maps normalized label spellings back to status values, so
// "In Transit", "IN_TRANSIT" and "in-transit" all coerce to the same value.
var labelValues = func() map[string]Status {
	m := make(map[string]Status, len(statusLabels))
	for status, label := range statusLabels {
		m[normalizeLabel(label)] = status
	}
	return m
}()

func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, s)
}

// Label returns the display name for the status. Lookup is total: an unknown
// value falls back to its decimal string form, it never fails.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return strconv.Itoa(int(s))
}

// Valid reports whether the value is one of the eight known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

// Coerce normalizes a backend-supplied status value (number, numeric string,
// or label) to the canonical integer domain.
func Coerce(v interface{}) (Status, error) {
	switch value := v.(type) {
	case Status:
		return value, nil
	case int:
		return Status(value), nil
	case int64:
		return Status(value), nil
	case float64:
		return Status(int(value)), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, value.String())
		}
		return Status(n), nil
	case string:
		trimmed := strings.TrimSpace(value)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return Status(n), nil
		}
		if status, ok := labelValues[normalizeLabel(trimmed)]; ok {
			return status, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownStatus, v)
	}
}

// UnmarshalJSON accepts both numeric and string encodings of a status.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	status, err := Coerce(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// MarshalJSON always emits the canonical numeric form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}
