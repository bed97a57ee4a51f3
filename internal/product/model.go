package product

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Product is one catalog entry. Quantity is the on-hand stock count; it is
// intended to stay non-negative but the ledger does not enforce that (see
// the ledger operations).
type Product struct {
	ID          uuid.UUID       `json:"prod_id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Image       string          `json:"image" db:"image"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
