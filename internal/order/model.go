package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Order is one purchase transaction. Total is a running sum maintained
// incrementally as line items are created, repriced, and deleted; it is never
// recomputed from the line items, so every mutation path must adjust it.
type Order struct {
	ID        uuid.UUID       `json:"order_id" db:"id"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Customer carries a caller-supplied identity; there is nothing else to it.
type Customer struct {
	ID        string    `json:"cust_id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LineItem joins an order, a product, and the customer who placed it.
// Price is the frozen line total (unit price × quantity) snapshotted when the
// line was created or last repriced, not re-derived from the product.
type LineItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OrderID    uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID  uuid.UUID       `json:"prod_id" db:"product_id"`
	CustomerID string          `json:"cust_id" db:"customer_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Price      decimal.Decimal `json:"price" db:"price"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// CartLine is one requested line of a new order. Price is the unit price the
// caller was quoted; the line's snapshot is computed from it, not from the
// catalog row.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// CustomerItem is a customer's line item joined with its product, as served
// by the order read endpoint. Price is the product's current unit price;
// Quantity is the quantity ordered.
type CustomerItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"prod_id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// ShopStats are the storefront counters shown on the dashboard.
type ShopStats struct {
	Customers int64           `json:"customers"`
	Sales     decimal.Decimal `json:"sales"`
}
