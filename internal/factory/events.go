package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokenfactory/internal/host"
)

// Event types published by the factory
const (
	EventFactoryInitialized = "factory_initialized"
	EventFeesUpdated        = "fees_updated"
	EventTokenCreated       = "token_created"
)

const eventsKey = "events"

// Event is one entry of the factory's append-only event log. The log is
// written inside the same atomic scope as the state change it describes, so
// a rolled-back invocation leaves no event behind.
type Event struct {
	Seq       int                    `json:"seq"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Events returns the factory event log in publication order
func (f *Factory) Events(ctx context.Context) ([]Event, error) {
	var events []Event

	err := f.host.Atomic(ctx, func(s host.Store) error {
		var err error
		events, err = readEvents(ctx, s)
		return err
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func appendEvent(ctx context.Context, s host.Store, eventType string, data map[string]interface{}) error {
	events, err := readEvents(ctx, s)
	if err != nil {
		return err
	}

	events = append(events, Event{
		Seq:       len(events),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})

	return writeJSON(ctx, s, eventsKey, events)
}

func readEvents(ctx context.Context, s host.Store) ([]Event, error) {
	value, found, err := s.Get(ctx, Namespace, eventsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	if !found {
		return nil, nil
	}

	var events []Event
	if err := json.Unmarshal(value, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event log: %w", err)
	}

	return events, nil
}
