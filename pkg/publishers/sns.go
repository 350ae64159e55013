package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsAPI is the part of the SNS client the topic sink calls.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsPublisher struct {
	id       string
	topicARN string
	fifo     bool
	client   snsAPI
	log      Logger
}

func newSNSPublisher(ctx context.Context, sink SinkConfig, log Logger) (Publisher, error) {
	if sink.SNS == nil {
		return nil, errors.New("missing sns settings")
	}
	awsCfg, err := loadAWSConfig(ctx, sink.SNS.AWSConfig)
	if err != nil {
		return nil, err
	}
	endpoint := sink.SNS.Endpoint
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &snsPublisher{
		id:       sink.ID,
		topicARN: sink.SNS.TopicARN,
		fifo:     strings.HasSuffix(sink.SNS.TopicARN, ".fifo"),
		client:   client,
		log:      orNop(log),
	}, nil
}

func (s *snsPublisher) ID() string   { return s.id }
func (s *snsPublisher) Kind() string { return KindSNS }

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	attrs := make(map[string]types.MessageAttributeValue, 3)
	for k, v := range evt.attributes() {
		attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	in := &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(string(payload)),
		MessageAttributes: attrs,
	}
	if s.fifo {
		in.MessageGroupId = aws.String(evt.groupID())
		in.MessageDeduplicationId = aws.String(evt.ID)
	}

	out, err := s.client.Publish(ctx, in)
	if err != nil {
		s.log.ErrorObj("customer event not published", "publisher_sns_error", map[string]any{
			"publisher_id": s.id,
			"event_id":     evt.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("sns publish: %w", err)
	}
	s.log.DebugObj("customer event published", "publisher_sns_delivery", map[string]any{
		"publisher_id": s.id,
		"event_id":     evt.ID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
