// events_client.go wraps the posthog client so callers never have to care
// whether analytics is configured.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
	"github.com/rentora/rentora_payments/internal/core/ports/gateways"
)

// EventsClientWrapper implements gateways.EventSink on top of posthog.
// When no API key is configured every call is a no-op.
type EventsClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

var _ gateways.EventSink = (*EventsClientWrapper)(nil)

func InitializeEventsClient(apiKey string, logger *slog.Logger) *EventsClientWrapper {
	if apiKey == "" {
		logger.Warn("Events API key is empty, not initializing events client.")
		return &EventsClientWrapper{}
	}
	wrapper := EventsClientWrapper{}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	wrapper.logger = logger
	return &wrapper
}

func (w *EventsClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

// Emit enqueues an event. Fire and forget: delivery failures never surface
// to callers.
func (w *EventsClientWrapper) Emit(distinctID string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	if w.logger != nil {
		w.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	}
	w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

func (w *EventsClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Close()
}
