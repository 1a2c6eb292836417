package ws

import (
	"sync"

	"github.com/feastline/order-pipeline/internal/metrics"
)

// ClientID is the logical address of a connected client. One identity holds
// at most one live connection.
type ClientID string

func CustomerID(userID string) ClientID {
	return ClientID("user_" + userID)
}

func RestaurantID(restaurantID string) ClientID {
	return ClientID("restaurant_" + restaurantID)
}

// Registry maps identities to live connections. It is rebuilt as clients
// (re)connect and holds no durable state.
type Registry struct {
	mu      sync.RWMutex
	clients map[ClientID]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[ClientID]*Conn),
	}
}

// Register inserts or replaces the mapping, last writer wins. A superseded
// connection for the same identity is closed so it cannot leak.
func (r *Registry) Register(id ClientID, conn *Conn) {
	r.mu.Lock()
	prev := r.clients[id]
	r.clients[id] = conn
	metrics.ConnectedClients.Set(float64(len(r.clients)))
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close()
	}
}

// Unregister removes whatever entry currently points at this exact
// connection handle. A connection that re-authenticated under a new identity,
// or was already superseded, leaves other entries untouched.
func (r *Registry) Unregister(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		if c == conn {
			delete(r.clients, id)
		}
	}
	metrics.ConnectedClients.Set(float64(len(r.clients)))
}

// Lookup returns the live connection for an identity. An entry whose
// connection has died is treated as absent.
func (r *Registry) Lookup(id ClientID) (*Conn, bool) {
	r.mu.RLock()
	conn, found := r.clients[id]
	r.mu.RUnlock()

	if !found || !conn.IsAlive() {
		return nil, false
	}
	return conn, true
}

// Len reports the current number of registered identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
