package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/stripe-workflows/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPublisherPostsEvent(t *testing.T) {
	var (
		received Event
		header   http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		header = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := newWebhookPublisher(context.Background(), SinkConfig{
		ID:   "crm",
		Kind: KindHTTP,
		HTTP: &HTTPSink{URL: srv.URL, Headers: map[string]string{"X-Source": "billing"}, Timeout: 2 * time.Second},
	}, nil)
	require.NoError(t, err)

	evt := NewEvent(EventCustomerCreated, domain.Customer{ID: "cus_1", Object: domain.ObjectCustomer})
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, evt.ID, received.ID)
	assert.Equal(t, "cus_1", received.CustomerID)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "billing", header.Get("X-Source"))
	assert.Equal(t, EventCustomerCreated, header.Get("X-Event-Type"))
	assert.Equal(t, "cus_1", header.Get("X-Customer-Id"))
	assert.Equal(t, evt.ID, header.Get("X-Event-Id"))
	assert.Equal(t, evt.ID, header.Get("Idempotency-Key"))
}

func TestWebhookPublisherRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown customer", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	pub, err := newWebhookPublisher(context.Background(), SinkConfig{ID: "crm", Kind: KindHTTP, HTTP: &HTTPSink{URL: srv.URL}}, nil)
	require.NoError(t, err)

	err = pub.Publish(context.Background(), NewEvent(EventCustomerDeleted, domain.Customer{ID: "cus_1"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook status 422: unknown customer")
}

func TestNewWebhookPublisherRequiresSettings(t *testing.T) {
	_, err := newWebhookPublisher(context.Background(), SinkConfig{ID: "crm", Kind: KindHTTP}, nil)
	assert.Error(t, err)
}
