// Package warehouse holds the reporting views fed from the order store.
// They are the destination side of the demo mapping profile.
package warehouse

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the reporting view of an order.
type Order struct {
	ID         int64           `db:"order_id"`
	CustomerID int64           `db:"customer_id"`
	Customer   string          `db:"customer"`
	Status     string          `db:"status"`
	Total      decimal.Decimal `db:"total"`
	ItemCount  int16           `db:"item_count"`
	Label      string          `db:"label"`
	Priority   string          `db:"priority"`
	OrderedAt  time.Time       `db:"ordered_at"`
	Audit      string
}

// Product is the catalog view of a product.
type Product struct {
	ID        int64           `db:"product_id"`
	SKU       string          `db:"sku"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Inventory int64           `db:"stock"`
	CreatedAt time.Time       `db:"created_at"`
}

// Contact is the mailing view of a customer.
type Contact struct {
	ID       int64  `db:"contact_id"`
	Email    string `db:"email"`
	FullName string `db:"full_name"`
	IsActive bool   `db:"is_active"`
}
