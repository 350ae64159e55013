package publishers

import (
	"context"
	"fmt"
)

// Builder creates the Publisher for one sink.
type Builder func(ctx context.Context, sink SinkConfig, log Logger) (Publisher, error)

// Builders maps sink kinds to their constructors.
type Builders map[string]Builder

// DefaultBuilders knows every sink kind the publishers file accepts.
func DefaultBuilders() Builders {
	return Builders{
		KindHTTP:   newWebhookPublisher,
		KindSQS:    newSQSPublisher,
		KindSNS:    newSNSPublisher,
		KindPubSub: newPubSubPublisher,
	}
}

// Build routes each sink's events through a Fanout. Publishers built before a
// failure are closed.
func (b Builders) Build(ctx context.Context, sinks []SinkConfig, log Logger) (*Fanout, error) {
	f := NewFanout()
	for _, sink := range sinks {
		build, ok := b[sink.Kind]
		if !ok {
			_ = f.Close()
			return nil, fmt.Errorf("publisher %q: no builder for type %q", sink.ID, sink.Kind)
		}
		pub, err := build(ctx, sink, log)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("build publisher %q: %w", sink.ID, err)
		}
		f.Route(pub, sink.Events...)
	}
	return f, nil
}
