package gateways

// EventSink receives a structured event for every state transition (account
// created, status changed, charge succeeded/failed, schedule
// created/cancelled). Delivery is fire-and-forget: a sink failure must never
// roll back or fail the underlying financial operation.
type EventSink interface {
	Emit(distinctID string, event string, properties map[string]any)
}
