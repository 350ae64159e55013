package domain

// Domain contains the customer resource models.

// ObjectCustomer is the object tag the API puts on customer payloads.
const ObjectCustomer = "customer"

// Customer is a customer record as returned by the API. Deleted customers keep
// only ID, Object and Deleted.
type Customer struct {
	ID          string            `json:"id" mapstructure:"id"`
	Object      string            `json:"object" mapstructure:"object"`
	Name        string            `json:"name,omitempty" mapstructure:"name"`
	Email       string            `json:"email,omitempty" mapstructure:"email"`
	Description string            `json:"description,omitempty" mapstructure:"description"`
	Phone       string            `json:"phone,omitempty" mapstructure:"phone"`
	Created     int64             `json:"created,omitempty" mapstructure:"created"`
	Livemode    bool              `json:"livemode,omitempty" mapstructure:"livemode"`
	Deleted     bool              `json:"deleted,omitempty" mapstructure:"deleted"`
	Metadata    map[string]string `json:"metadata,omitempty" mapstructure:"metadata"`
}

// CustomerList is one page of customers.
type CustomerList struct {
	Object  string     `json:"object" mapstructure:"object"`
	URL     string     `json:"url" mapstructure:"url"`
	HasMore bool       `json:"has_more" mapstructure:"has_more"`
	Data    []Customer `json:"data" mapstructure:"data"`
}
