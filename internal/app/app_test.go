package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/samvad-hq/stripe-workflows/internal/config"
	"github.com/samvad-hq/stripe-workflows/internal/domain"
	"github.com/samvad-hq/stripe-workflows/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNewRejectsMissingCredential(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StripeURL: "https://api.example.com"}, nil)
	assert.Error(t, err)
}

func TestAppPublishesCustomerEvents(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"cus_1","object":"customer","name":"Jane"}`)
	}))
	defer api.Close()

	var (
		mu    sync.Mutex
		hooks int
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, publishers.EventCustomerCreated, r.Header.Get("X-Event-Type"))
		mu.Lock()
		hooks++
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n" +
		"  - id: hook\n    type: http\n    events: [customer.created]\n    http:\n      url: " + hook.URL + "\n" +
		"  - id: off\n    type: http\n    enabled: false\n    http:\n      url: " + hook.URL + "/off\n"
	require.NoError(t, os.WriteFile(pubFile, []byte(raw), 0o644))

	a, err := New(context.Background(), &config.Config{
		StripeURL:      api.URL,
		StripeAPIKey:   "sk_test_123",
		PublishersFile: pubFile,
	}, nil)
	require.NoError(t, err)
	defer a.Close()

	c, err := a.Customers().Create(context.Background(), domain.CustomerInfo{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", c.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hooks)
}

func TestAppRejectsInvalidPublishersFile(t *testing.T) {
	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte("publishers:\n  - {id: q, type: sqs}\n"), 0o644))

	_, err := New(context.Background(), &config.Config{
		StripeURL:      "https://api.example.com",
		StripeAPIKey:   "sk_test_123",
		PublishersFile: pubFile,
	}, nil)
	assert.ErrorContains(t, err, "publishers[0].sqs fails required_if")
}

func TestAppWithoutPublishersFile(t *testing.T) {
	a, err := New(context.Background(), &config.Config{
		StripeURL:    "https://api.example.com",
		StripeAPIKey: "sk_test_123",
	}, nil, WithPublisherBuilders(publishers.Builders{}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", a.Client().BaseURL())
	assert.NoError(t, a.Close())
}
