package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// webhookPublisher posts each event as JSON. The event id doubles as the
// idempotency key so receivers can drop redeliveries.
type webhookPublisher struct {
	id     string
	url    string
	client *resty.Client
	log    Logger
}

func newWebhookPublisher(_ context.Context, sink SinkConfig, log Logger) (Publisher, error) {
	if sink.HTTP == nil {
		return nil, errors.New("missing http settings")
	}
	timeout := sink.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeaders(sink.HTTP.Headers)

	return &webhookPublisher{
		id:     sink.ID,
		url:    sink.HTTP.URL,
		client: client,
		log:    orNop(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Kind() string { return KindHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeaders(evt.headers()).
		SetHeader("Idempotency-Key", evt.ID).
		SetBody(evt).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(string(resp.Body()))
		if len(body) > 256 {
			body = body[:256]
		}
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode(), body)
	}

	w.log.DebugObj("customer event posted", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"event_id":     evt.ID,
		"status":       resp.StatusCode(),
	})
	return nil
}
