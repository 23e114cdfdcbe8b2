package booking

import (
	"errors"
	"fmt"
	"time"

	"tourbook/internal/workflow"
)

// ServiceType is the kind of tourism service a booking requests.
type ServiceType string

const (
	ServiceTransport     ServiceType = "transport"
	ServiceAccommodation ServiceType = "accommodation"
	ServiceEvent         ServiceType = "event"
	ServiceGuide         ServiceType = "guide"
)

func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceTransport, ServiceAccommodation, ServiceEvent, ServiceGuide:
		return ServiceType(s), nil
	default:
		return "", fmt.Errorf("unknown service type: %s", s)
	}
}

type Booking struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	CustomerID  string          `json:"customerId"`
	ServiceType ServiceType     `json:"serviceType"`
	Details     string          `json:"details"`
	ResourceID  string          `json:"resourceId,omitempty"`
	Status      workflow.Status `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

var (
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict means the compare-and-set status write matched zero
	// rows: the booking moved between read and write. Callers must re-fetch
	// and re-validate, never blindly retry the original mutation.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)
