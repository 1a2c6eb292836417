package storage

import (
	"context"

	"github.com/feastline/order-pipeline/internal/repository"
)

// OrderRepository is the pipeline's view of the order store: load one order,
// rewrite its status. Everything else about orders belongs to the ordering
// service.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	UpdateStatus(ctx context.Context, id string, status repository.Status) error
}
