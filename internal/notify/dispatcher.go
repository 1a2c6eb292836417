package notify

import (
	"go.uber.org/zap"

	"github.com/feastline/order-pipeline/internal/metrics"
	"github.com/feastline/order-pipeline/internal/ws"
)

// Lookuper resolves an identity to a live connection.
type Lookuper interface {
	Lookup(id ws.ClientID) (*ws.Conn, bool)
}

// Dispatcher pushes payloads to connected clients. Delivery is at-most-once
// and advisory: an offline recipient, a dead socket, or a full outbound queue
// all end as a silent no-op. The caller is never blocked and never sees an
// error.
type Dispatcher struct {
	registry Lookuper
	logger   *zap.Logger
}

func NewDispatcher(registry Lookuper, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

func (d *Dispatcher) NotifyCustomer(userID string, payload []byte) {
	d.push(ws.CustomerID(userID), "customer", payload)
}

func (d *Dispatcher) NotifyRestaurant(restaurantID string, payload []byte) {
	d.push(ws.RestaurantID(restaurantID), "restaurant", payload)
}

func (d *Dispatcher) push(id ws.ClientID, recipient string, payload []byte) {
	conn, found := d.registry.Lookup(id)
	if !found {
		d.logger.Debug("recipient offline, notification dropped",
			zap.String("client_id", string(id)))
		metrics.NotificationsDroppedTotal.WithLabelValues(recipient).Inc()
		return
	}

	if !conn.Send(payload) {
		metrics.NotificationsDroppedTotal.WithLabelValues(recipient).Inc()
		return
	}
	metrics.NotificationsSentTotal.WithLabelValues(recipient).Inc()
}
