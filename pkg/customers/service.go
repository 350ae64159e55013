package customers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/samvad-hq/stripe-workflows/internal/domain"
	"github.com/samvad-hq/stripe-workflows/pkg/httpclient"
	"github.com/samvad-hq/stripe-workflows/pkg/publishers"
)

const basePath = "/v1/customers"

// Service exposes customer CRUD workflows on top of an API client.
type Service struct {
	client httpclient.Requester
	events EventPublisher
	log    Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the workflow logger.
func WithLogger(log Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithEvents publishes lifecycle events after successful create, update and delete calls.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// NewService wires workflows to the given client.
func NewService(client httpclient.Requester, opts ...Option) *Service {
	s := &Service{client: client, log: noopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a customer.
func (s *Service) Create(ctx context.Context, info domain.CustomerInfo) (*domain.Customer, error) {
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("customers create: invalid params: %w", err)
	}

	var c domain.Customer
	if err := s.do(ctx, "create", httpclient.Post, basePath, info.Values(), &c); err != nil {
		return nil, err
	}
	s.publish(ctx, publishers.EventCustomerCreated, c)
	return &c, nil
}

// Retrieve fetches a customer by id. Deleted customers are returned with Deleted set.
func (s *Service) Retrieve(ctx context.Context, id string) (*domain.Customer, error) {
	path, err := customerPath(id)
	if err != nil {
		return nil, fmt.Errorf("customers retrieve: %w", err)
	}

	var c domain.Customer
	if err := s.do(ctx, "retrieve", httpclient.Get, path, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update changes the fields set in info and leaves the rest untouched.
func (s *Service) Update(ctx context.Context, id string, info domain.CustomerInfo) (*domain.Customer, error) {
	path, err := customerPath(id)
	if err != nil {
		return nil, fmt.Errorf("customers update: %w", err)
	}
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("customers update: invalid params: %w", err)
	}

	var c domain.Customer
	if err := s.do(ctx, "update", httpclient.Post, path, info.Values(), &c); err != nil {
		return nil, err
	}
	s.publish(ctx, publishers.EventCustomerUpdated, c)
	return &c, nil
}

// Delete permanently deletes a customer and returns the deletion stub.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	path, err := customerPath(id)
	if err != nil {
		return nil, fmt.Errorf("customers delete: %w", err)
	}

	var c domain.Customer
	if err := s.do(ctx, "delete", httpclient.Delete, path, nil, &c); err != nil {
		return nil, err
	}
	s.publish(ctx, publishers.EventCustomerDeleted, c)
	return &c, nil
}

// List returns one page of customers, newest first.
func (s *Service) List(ctx context.Context, params domain.ListParams) (*domain.CustomerList, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("customers list: invalid params: %w", err)
	}

	var list domain.CustomerList
	if err := s.do(ctx, "list", httpclient.Get, basePath, params.Values(), &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []domain.Customer{}
	}
	return &list, nil
}

// ListAll walks every page matching params and calls fn for each customer.
// Iteration stops at the first error returned by fn.
func (s *Service) ListAll(ctx context.Context, params domain.ListParams, fn func(domain.Customer) error) error {
	if fn == nil {
		return fmt.Errorf("customers list all: %w", ErrNilCallback)
	}
	backward := params.EndingBefore != ""
	for {
		page, err := s.List(ctx, params)
		if err != nil {
			return err
		}
		for _, c := range page.Data {
			if err := fn(c); err != nil {
				return err
			}
		}
		if !page.HasMore || len(page.Data) == 0 {
			return nil
		}
		if backward {
			params.EndingBefore = page.Data[0].ID
		} else {
			params.StartingAfter = page.Data[len(page.Data)-1].ID
		}
	}
}

func (s *Service) do(ctx context.Context, op string, verb httpclient.Verb, path string, params url.Values, out any) error {
	env, err := s.client.ExecuteRequest(ctx, verb, path, params)
	if err != nil {
		return fmt.Errorf("customers %s: %w", op, err)
	}
	if !env.Success() {
		return &APIError{Op: op, Status: env.Status, Message: env.Error}
	}
	if err := decodeBody(env.Body, out); err != nil {
		return fmt.Errorf("customers %s: decode response: %w", op, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ string, c domain.Customer) {
	if s.events == nil {
		return
	}
	delivered, err := s.events.Publish(ctx, publishers.NewEvent(typ, c))
	if err != nil {
		s.log.WarnObj("customer event publish failed", "customer_event_error", map[string]any{
			"event_type":  typ,
			"customer_id": c.ID,
			"delivered":   delivered,
			"error":       err.Error(),
		})
		return
	}
	s.log.DebugObj("customer event published", "customer_event", map[string]any{
		"event_type":  typ,
		"customer_id": c.ID,
		"delivered":   delivered,
	})
}

func customerPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyID
	}
	return basePath + "/" + url.PathEscape(id), nil
}

func decodeBody(body map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(body)
}
