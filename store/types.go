// Package store holds the row types of the order store. They are the
// source side of the demo mapping profile in cmd/mapper-synthesizer.
package store

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a row of the orders table.
type Order struct {
	ID           int64       `db:"id"`
	CustomerID   int64       `db:"customer_id"`
	CustomerName string      `db:"customer_name"`
	Status       OrderStatus `db:"status"`
	TotalCents   int64       `db:"total_cents"`
	ItemCount    int32       `db:"item_count"`
	Note         string      `db:"note"`
	OrderedAt    time.Time   `db:"ordered_at"`
}

// Product is a row of the products table.
type Product struct {
	ID           int64     `db:"id"`
	SKU          string    `db:"sku"`
	Name         string    `db:"name"`
	PriceCents   int64     `db:"price_cents"`
	Inventory    int       `db:"inventory"`
	Discontinued bool      `db:"discontinued"`
	CreatedAt    time.Time `db:"created_at"`
}

// Customer is a row of the customers table.
type Customer struct {
	ID        int64  `db:"id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	IsActive  bool   `db:"is_active"`
}
