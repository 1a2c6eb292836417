package notify

import (
	"encoding/json"
	"time"

	"github.com/feastline/order-pipeline/internal/repository"
)

const (
	payloadNewOrder    = "NEW_ORDER"
	payloadOrderUpdate = "ORDER_UPDATE"
)

// NewOrderPayload is pushed to the restaurant when an order is created.
// It carries the full order snapshot so the dashboard can render it without
// a follow-up fetch.
type NewOrderPayload struct {
	Type      string            `json:"type"`
	OrderID   string            `json:"orderId"`
	Order     *repository.Order `json:"order"`
	Timestamp string            `json:"timestamp"`
}

// OrderUpdatePayload is pushed to the customer on every status change.
type OrderUpdatePayload struct {
	Type      string            `json:"type"`
	OrderID   string            `json:"orderId"`
	Status    repository.Status `json:"status"`
	Timestamp string            `json:"timestamp"`
}

func NewOrder(order *repository.Order) ([]byte, error) {
	return json.Marshal(NewOrderPayload{
		Type:      payloadNewOrder,
		OrderID:   order.ID,
		Order:     order,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func OrderUpdate(orderID string, status repository.Status) ([]byte, error) {
	return json.Marshal(OrderUpdatePayload{
		Type:      payloadOrderUpdate,
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
