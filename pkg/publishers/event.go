package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/stripe-workflows/internal/domain"
)

// Customer lifecycle event types.
const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
)

// Event represents the payload published downstream.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	CustomerID string          `json:"customer_id"`
	Customer   domain.Customer `json:"customer"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event for the given type + customer.
func NewEvent(typ string, customer domain.Customer) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		CustomerID: customer.ID,
		Customer:   customer,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by broker publishers. Empty
// values are left out since brokers reject them.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"event_id":    e.ID,
		"event_type":  e.Type,
		"customer_id": e.CustomerID,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

// headers carry the same routing data for webhook receivers.
func (e Event) headers() map[string]string {
	h := make(map[string]string, 3)
	for k, v := range e.attributes() {
		switch k {
		case "event_id":
			h["X-Event-Id"] = v
		case "event_type":
			h["X-Event-Type"] = v
		case "customer_id":
			h["X-Customer-Id"] = v
		}
	}
	return h
}

// groupID keys FIFO message groups and Pub/Sub ordering: one customer, one sequence.
func (e Event) groupID() string {
	if e.CustomerID != "" {
		return e.CustomerID
	}
	return e.ID
}
