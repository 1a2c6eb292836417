package repository

import "fmt"

// Status is the current position of an order in its lifecycle. The string
// values are the human-readable ones carried on the wire and stored in the
// orders table.
type Status string

const (
	StatusNew         Status = "New"
	StatusPreparing   Status = "Preparing"
	StatusPickUpReady Status = "Pick Up Ready"
	StatusOnTheWay    Status = "On the way"
	StatusDelivered   Status = "Delivered"
	StatusCancelled   Status = "Cancelled"
)

// Allowed lifecycle transitions. Delivered and Cancelled are terminal.
var allowedTransitions = map[Status]map[Status]bool{
	StatusNew:         {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:   {StatusPickUpReady: true, StatusOnTheWay: true, StatusCancelled: true},
	StatusPickUpReady: {StatusDelivered: true},
	StatusOnTheWay:    {StatusDelivered: true},
	StatusDelivered:   {},
	StatusCancelled:   {},
}

// ParseStatus validates a wire status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// CanTransition reports whether from->to is a legal lifecycle step.
// A transition to the current status is legal: replayed broker messages
// must converge rather than error.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	next := allowedTransitions[from]
	return next != nil && next[to]
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// TransitionError reports an illegal lifecycle step for an order.
type TransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: illegal status transition %q -> %q", e.OrderID, e.From, e.To)
}
