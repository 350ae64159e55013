package publishers

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Sink kinds accepted in the publishers file.
const (
	KindHTTP   = "http"
	KindSQS    = "sqs"
	KindSNS    = "sns"
	KindPubSub = "pubsub"
)

const defaultHTTPTimeout = 5 * time.Second

var validate = newValidator()

// newValidator reports fields by their YAML names so errors point at the file.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Config is the publishers file: the sinks customer events are routed to.
// JSON files are accepted too, since JSON is valid YAML.
type Config struct {
	Publishers []SinkConfig `yaml:"publishers" validate:"min=1,unique=ID,dive"`
}

// SinkConfig declares one destination. Events limits the event types routed to
// it; an empty list routes every customer event.
type SinkConfig struct {
	ID      string   `yaml:"id" validate:"required"`
	Kind    string   `yaml:"type" validate:"required,oneof=http sqs sns pubsub"`
	Enabled *bool    `yaml:"enabled"`
	Events  []string `yaml:"events" validate:"omitempty,dive,oneof=customer.created customer.updated customer.deleted"`

	HTTP   *HTTPSink   `yaml:"http" validate:"required_if=Kind http"`
	SQS    *SQSSink    `yaml:"sqs" validate:"required_if=Kind sqs"`
	SNS    *SNSSink    `yaml:"sns" validate:"required_if=Kind sns"`
	PubSub *PubSubSink `yaml:"pubsub" validate:"required_if=Kind pubsub"`
}

// AWSConfig is shared by the SQS and SNS sinks. Without static keys the default
// credential chain is used.
type AWSConfig struct {
	Region          string `yaml:"region" validate:"required"`
	AccessKeyID     string `yaml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
}

// SQSSink sends events to a queue. FIFO queues get one message group per customer.
type SQSSink struct {
	AWSConfig `yaml:",inline"`
	QueueURL  string `yaml:"queue_url" validate:"required,url"`
}

// SNSSink publishes events to a topic. FIFO topics get one message group per customer.
type SNSSink struct {
	AWSConfig `yaml:",inline"`
	TopicARN  string `yaml:"topic_arn" validate:"required,startswith=arn:"`
}

// PubSubSink publishes to a Google Cloud Pub/Sub topic. With Ordered set, events
// for the same customer are delivered in publish order.
type PubSubSink struct {
	ProjectID       string `yaml:"project_id" validate:"required"`
	Topic           string `yaml:"topic" validate:"required"`
	CredentialsFile string `yaml:"credentials_file"`
	Ordered         bool   `yaml:"ordered"`
}

// HTTPSink posts events as JSON to a webhook.
type HTTPSink struct {
	URL     string            `yaml:"url" validate:"required,http_url"`
	Headers map[string]string `yaml:"headers" validate:"omitempty,dive,keys,required,endkeys,required"`
	Timeout time.Duration     `yaml:"timeout" validate:"gte=0"`
}

// LoadConfig reads and validates a publishers file.
func LoadConfig(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return ParseConfig(raw)
}

// ParseConfig decodes a publishers document and validates every sink.
func ParseConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	for i := range cfg.Publishers {
		s := &cfg.Publishers[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, describeValidation(err)
	}
	return &cfg, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid publishers file: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, field+" fails "+rule)
	}
	return fmt.Errorf("invalid publishers file: %s", strings.Join(msgs, "; "))
}

// Enabled returns the sinks that are switched on; a missing flag means on.
func (c *Config) Enabled() []SinkConfig {
	if c == nil {
		return nil
	}
	out := make([]SinkConfig, 0, len(c.Publishers))
	for _, s := range c.Publishers {
		if s.Enabled == nil || *s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
