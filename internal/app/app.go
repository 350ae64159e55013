package app

import (
	"context"
	"fmt"

	"github.com/samvad-hq/stripe-workflows/internal/config"
	"github.com/samvad-hq/stripe-workflows/internal/logger"
	"github.com/samvad-hq/stripe-workflows/pkg/customers"
	"github.com/samvad-hq/stripe-workflows/pkg/httpclient"
	"github.com/samvad-hq/stripe-workflows/pkg/publishers"
)

// App owns the API client and the workflows built on it. One App is created per
// process and handed to whatever needs the customer workflows.
type App struct {
	cfg       *config.Config
	client    *httpclient.Client
	fanout    *publishers.Fanout
	customers *customers.Service
	log       logger.Logger
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	clientOpts []httpclient.Option
	builders   publishers.Builders
}

// WithClientOptions forwards options to the API client.
func WithClientOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// WithPublisherBuilders replaces the default sink constructors.
func WithPublisherBuilders(b publishers.Builders) Option {
	return func(o *options) { o.builders = b }
}

// New builds the runtime from config.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := options{builders: publishers.DefaultBuilders()}
	for _, opt := range opts {
		opt(&o)
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.StripeURL,
		APIKey:  cfg.StripeAPIKey,
		Debug:   cfg.Debug,
	}, log, o.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	log.InfoObj("api client initialized", "client_config", map[string]any{
		"base_url":        client.BaseURL(),
		"max_retry":       httpclient.MaxRetry,
		"connect_timeout": httpclient.ConnectTimeout.String(),
		"debug":           cfg.Debug,
	})

	fanout, err := buildFanout(ctx, cfg, o.builders, log)
	if err != nil {
		return nil, err
	}

	svcOpts := []customers.Option{customers.WithLogger(log)}
	if fanout.Size() > 0 {
		svcOpts = append(svcOpts, customers.WithEvents(fanout))
	}

	return &App{
		cfg:       cfg,
		client:    client,
		fanout:    fanout,
		customers: customers.NewService(client, svcOpts...),
		log:       log,
	}, nil
}

// buildFanout loads the optional publishers file; no file means no events.
func buildFanout(ctx context.Context, cfg *config.Config, builders publishers.Builders, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(), nil
	}

	pubCfg, err := publishers.LoadConfig(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	sinks := pubCfg.Enabled()

	fanout, err := builders.Build(ctx, sinks, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	routes := make([]map[string]any, 0, len(sinks))
	for _, s := range sinks {
		routes = append(routes, map[string]any{
			"id":     s.ID,
			"type":   s.Kind,
			"events": s.Events,
		})
	}
	log.InfoObj("customer event routes loaded", "publishers_meta", map[string]any{
		"count":  len(routes),
		"routes": routes,
	})
	return fanout, nil
}

// Customers returns the customer workflows.
func (a *App) Customers() *customers.Service { return a.customers }

// Client returns the shared API client.
func (a *App) Client() *httpclient.Client { return a.client }

// Close releases publisher resources.
func (a *App) Close() error {
	if a == nil || a.fanout == nil {
		return nil
	}
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publisher close failed", "error", err)
		return err
	}
	return nil
}
