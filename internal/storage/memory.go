package storage

import (
	"context"
	"sync"
	"time"

	"github.com/feastline/order-pipeline/internal/repository"
)

// MemoryOrderRepository keeps orders in a mutex-guarded map. Used in tests and
// for running the pipeline without Postgres.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*repository.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]*repository.Order),
	}
}

func (r *MemoryOrderRepository) Put(order *repository.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orderCopy := *order
	r.orders[order.ID] = &orderCopy
}

func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, found := r.orders[id]
	if !found {
		return nil, repository.ErrObjectNotFound
	}
	orderCopy := *order
	return &orderCopy, nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id string, status repository.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, found := r.orders[id]
	if !found {
		return repository.ErrObjectNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}
