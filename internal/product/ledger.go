package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
)

// Ledger operations mutate a product's on-hand quantity inside a transaction
// owned by the caller. Stock is not floored at zero: a decrement larger than
// the available quantity drives it negative. Whether over-selling should be
// rejected instead is an open product decision; the current behavior keeps
// the count accurate and leaves the policy to the caller.

// LockProduct loads a product row with FOR UPDATE so subsequent quantity and
// price reads within the transaction are stable against concurrent orders.
func LockProduct(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Product, error) {
	query := `
		SELECT id, name, image, description, price, quantity, created_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p Product
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Image, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("ledger: failed to lock product %s: %w", id, err)
	}

	return &p, nil
}

// IncrementQuantity returns amount units to the product's stock.
func IncrementQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int) error {
	return adjustQuantity(ctx, tx, id, amount)
}

// DecrementQuantity removes amount units from the product's stock.
func DecrementQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int) error {
	return adjustQuantity(ctx, tx, id, -amount)
}

func adjustQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE products SET quantity = quantity + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("ledger: failed to adjust quantity for product %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
