package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

type route struct {
	pub    Publisher
	events map[string]struct{}
}

func (r route) accepts(eventType string) bool {
	if len(r.events) == 0 {
		return true
	}
	_, ok := r.events[eventType]
	return ok
}

// Fanout delivers each customer event to every publisher routed for its type.
type Fanout struct {
	routes []route
}

// NewFanout routes every event type to each of pubs.
func NewFanout(pubs ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		f.Route(p)
	}
	return f
}

// Route adds p for the given event types, or for all of them when none are given.
func (f *Fanout) Route(p Publisher, eventTypes ...string) {
	if p == nil {
		return
	}
	r := route{pub: p}
	if len(eventTypes) > 0 {
		r.events = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			r.events[t] = struct{}{}
		}
	}
	f.routes = append(f.routes, r)
}

// Publish returns how many publishers accepted the event. Failures from the
// others are joined into the error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}
	var (
		errs      []error
		delivered int
	)
	for _, r := range f.routes {
		if !r.accepts(evt.Type) {
			continue
		}
		if err := r.pub.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", r.pub.Kind(), r.pub.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size is the number of routed publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.routes)
}

// Close releases publishers holding client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, r := range f.routes {
		c, ok := r.pub.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s %s: %w", r.pub.Kind(), r.pub.ID(), err))
		}
	}
	return errors.Join(errs...)
}
