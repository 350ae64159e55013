package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

type pubsubPublisher struct {
	id      string
	ordered bool
	client  *pubsub.Client
	topic   *pubsub.Topic
	log     Logger
}

// newPubSubPublisher connects to the sink's project. PUBSUB_EMULATOR_HOST is
// honoured by the client library.
func newPubSubPublisher(ctx context.Context, sink SinkConfig, log Logger) (Publisher, error) {
	if sink.PubSub == nil {
		return nil, errors.New("missing pubsub settings")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if sink.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(sink.PubSub.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, sink.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	topic := client.Topic(sink.PubSub.Topic)
	topic.EnableMessageOrdering = sink.PubSub.Ordered
	return &pubsubPublisher{
		id:      sink.ID,
		ordered: sink.PubSub.Ordered,
		client:  client,
		topic:   topic,
		log:     orNop(log),
	}, nil
}

func (p *pubsubPublisher) ID() string   { return p.id }
func (p *pubsubPublisher) Kind() string { return KindPubSub }

// Publish blocks until the server acknowledges the message.
func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := &pubsub.Message{Data: payload, Attributes: evt.attributes()}
	if p.ordered {
		msg.OrderingKey = evt.groupID()
	}
	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		if p.ordered {
			// Publishing on a failed key is paused until resumed.
			p.topic.ResumePublish(msg.OrderingKey)
		}
		p.log.ErrorObj("customer event not published", "publisher_pubsub_error", map[string]any{
			"publisher_id": p.id,
			"event_id":     evt.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("pubsub publish: %w", err)
	}
	p.log.DebugObj("customer event published", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": p.id,
		"event_id":     evt.ID,
		"message_id":   serverID,
	})
	return nil
}

// Close flushes pending messages and releases the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
