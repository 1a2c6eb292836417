package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventType string

const (
	EvtOrderCreated     EventType = "ORDER_CREATED"
	EvtOrderPreparing   EventType = "ORDER_PREPARING"
	EvtOrderPickUpReady EventType = "ORDER_PICK_UP_READY"
	EvtOrderOnTheWay    EventType = "ORDER_ON_THE_WAY"
	EvtOrderDelivered   EventType = "ORDER_DELIVERED"
	EvtOrderCancelled   EventType = "ORDER_CANCELLED"
)

// ErrUnknownType marks well-formed payloads with an unrecognized type.
// Consumers log these at warn level and move on; they are not decode failures.
var ErrUnknownType = errors.New("unknown event type")

var knownTypes = map[EventType]bool{
	EvtOrderCreated:     true,
	EvtOrderPreparing:   true,
	EvtOrderPickUpReady: true,
	EvtOrderOnTheWay:    true,
	EvtOrderDelivered:   true,
	EvtOrderCancelled:   true,
}

// Event is one order-lifecycle occurrence pulled off the broker topic.
// Status is empty for ORDER_CREATED and required for every other type.
type Event struct {
	Type    EventType `json:"type"`
	OrderID string    `json:"orderId"`
	Status  string    `json:"status,omitempty"`
}

// IsStatusBearing reports whether the event carries a target status.
func (e *Event) IsStatusBearing() bool {
	return e.Type != EvtOrderCreated
}

// DecodeError is a hard decode failure: malformed JSON or a missing
// required field. The message is unusable and is skipped.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode event: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode event: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one broker message payload into a typed event.
func Decode(raw []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, &DecodeError{Reason: "malformed payload", Err: err}
	}

	if evt.Type == "" {
		return nil, &DecodeError{Reason: "missing type"}
	}
	if !knownTypes[evt.Type] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, evt.Type)
	}
	if evt.OrderID == "" {
		return nil, &DecodeError{Reason: fmt.Sprintf("missing orderId for %s", evt.Type)}
	}
	if evt.IsStatusBearing() && evt.Status == "" {
		return nil, &DecodeError{Reason: fmt.Sprintf("missing status for %s", evt.Type)}
	}

	return &evt, nil
}
