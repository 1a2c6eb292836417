package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// Order is the durable order record. The pipeline only reads it and rewrites
// Status; every other field is owned by the ordering service.
type Order struct {
	ID                    string    `json:"id" db:"id"`
	UserID                string    `json:"userId" db:"user_id"`
	UserEmail             string    `json:"userEmail" db:"user_email"`
	RestaurantID          string    `json:"restaurantId" db:"restaurant_id"`
	RestaurantName        string    `json:"restaurantName" db:"restaurant_name"`
	TotalAmount           float64   `json:"totalAmount" db:"total_amount"`
	Status                Status    `json:"status" db:"status"`
	EstimatedDeliveryTime string    `json:"estimatedDeliveryTime,omitempty" db:"estimated_delivery_time"`
	DeliveryAddress       string    `json:"deliveryAddress,omitempty" db:"delivery_address"`
	PaymentMethod         string    `json:"paymentMethod" db:"payment_method"`
	Items                 []byte    `json:"items" db:"items"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
}
