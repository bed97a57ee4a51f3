package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rangers-shop/api/internal/product"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrLineItemNotFound = errors.New("line item not found")
)

type Repository interface {
	CreateOrder(ctx context.Context, customerID string, lines []CartLine) (*Order, error)
	ListCustomerItems(ctx context.Context, customerID string) ([]CustomerItem, error)
	UpdateLineItem(ctx context.Context, orderID, productID uuid.UUID, newQuantity int) (*LineItem, error)
	DeleteLineItem(ctx context.Context, orderID, productID uuid.UUID) error
	CountCustomers(ctx context.Context) (int64, error)
	SalesTotal(ctx context.Context) (decimal.Decimal, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// withTx runs fn inside one transaction. Any error (or panic) rolls the whole
// transaction back, so orchestrated multi-row mutations never commit partially.
func (r *postgresRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}

// incrementTotal and decrementTotal are the only mutators of an order's
// running total.

func incrementTotal(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE orders SET total = total + $1 WHERE id = $2`, amount, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to adjust total for order %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func decrementTotal(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error {
	return incrementTotal(ctx, tx, orderID, amount.Neg())
}

// ensureCustomer resolves the caller-supplied customer id, creating the row on
// first use. Nothing beyond existence is validated.
func ensureCustomer(ctx context.Context, tx pgx.Tx, customerID string) error {
	query := `INSERT INTO customers (id, created_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
	if _, err := tx.Exec(ctx, query, customerID, time.Now().UTC()); err != nil {
		return fmt.Errorf("repository: failed to ensure customer %s: %w", customerID, err)
	}

	return nil
}

// lockLineItem loads the line item identified by (orderID, productID) with
// FOR UPDATE.
func lockLineItem(ctx context.Context, tx pgx.Tx, orderID, productID uuid.UUID) (*LineItem, error) {
	query := `
		SELECT id, order_id, product_id, customer_id, quantity, price, created_at, updated_at
		FROM line_items
		WHERE order_id = $1 AND product_id = $2
		FOR UPDATE
	`

	var item LineItem
	err := tx.QueryRow(ctx, query, orderID, productID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.CustomerID,
		&item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLineItemNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock line item for order %s, product %s: %w", orderID, productID, err)
	}

	return &item, nil
}

func lockOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*Order, error) {
	query := `SELECT id, total, created_at FROM orders WHERE id = $1 FOR UPDATE`

	var o Order
	err := tx.QueryRow(ctx, query, orderID).Scan(&o.ID, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock order %s: %w", orderID, err)
	}

	return &o, nil
}

// CreateOrder creates the order, its line items, the total increments, and
// the inventory decrements as one unit. Each line snapshots
// quantity × quoted unit price; stock is reduced with no sufficiency check,
// so a large order can drive a product's quantity negative.
func (r *postgresRepository) CreateOrder(ctx context.Context, customerID string, lines []CartLine) (*Order, error) {
	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to generate order ID: %w", err)
	}

	createdOrder := &Order{
		ID:        orderID,
		Total:     decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}

	err = r.withTx(ctx, func(tx pgx.Tx) error {
		if err := ensureCustomer(ctx, tx, customerID); err != nil {
			return err
		}

		queryOrder := `INSERT INTO orders (id, total, created_at) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, queryOrder, createdOrder.ID, createdOrder.Total, createdOrder.CreatedAt); err != nil {
			return fmt.Errorf("repository: failed to insert order: %w", err)
		}

		for _, line := range lines {
			// Locking the product both verifies it exists and serializes
			// concurrent stock changes against this row.
			if _, err := product.LockProduct(ctx, tx, line.ProductID); err != nil {
				return err
			}

			itemID, err := uuid.NewV4()
			if err != nil {
				return fmt.Errorf("repository: failed to generate line item ID: %w", err)
			}

			linePrice := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			now := time.Now().UTC()

			queryItem := `
				INSERT INTO line_items (id, order_id, product_id, customer_id, quantity, price, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`
			_, err = tx.Exec(ctx, queryItem,
				itemID, createdOrder.ID, line.ProductID, customerID, line.Quantity, linePrice, now, now,
			)
			if err != nil {
				return fmt.Errorf("repository: failed to insert line item for order %s: %w", createdOrder.ID, err)
			}

			if err := incrementTotal(ctx, tx, createdOrder.ID, linePrice); err != nil {
				return err
			}

			if err := product.DecrementQuantity(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			createdOrder.Total = createdOrder.Total.Add(linePrice)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return createdOrder, nil
}

func (r *postgresRepository) ListCustomerItems(ctx context.Context, customerID string) ([]CustomerItem, error) {
	query := `
		SELECT li.id, li.order_id, p.id, p.name, p.image, p.description, p.price, li.quantity
		FROM line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.customer_id = $1
		ORDER BY li.created_at
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query line items for customer %s: %w", customerID, err)
	}
	defer rows.Close()

	items := make([]CustomerItem, 0)
	for rows.Next() {
		var item CustomerItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID,
			&item.Name, &item.Image, &item.Description, &item.Price, &item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan line item for customer %s: %w", customerID, err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating line items for customer %s: %w", customerID, err)
	}

	return items, nil
}

// UpdateLineItem reprices the line at the product's current unit price and
// reconciles the order total and the product stock with the quantity change,
// all in one transaction. The undo of the old price and the inventory diff
// both use the quantity as it was before this call.
func (r *postgresRepository) UpdateLineItem(ctx context.Context, orderID, productID uuid.UUID, newQuantity int) (*LineItem, error) {
	var updated *LineItem

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		item, err := lockLineItem(ctx, tx, orderID, productID)
		if err != nil {
			return err
		}

		if _, err := lockOrder(ctx, tx, orderID); err != nil {
			return err
		}

		prod, err := product.LockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		if err := decrementTotal(ctx, tx, orderID, item.Price); err != nil {
			return err
		}

		// The line is repriced from the product's current unit price, so a
		// catalog price change since the original order changes what the
		// customer is charged here. See DESIGN.md before altering this.
		newPrice := prod.Price.Mul(decimal.NewFromInt(int64(newQuantity)))

		if err := incrementTotal(ctx, tx, orderID, newPrice); err != nil {
			return err
		}

		diff := newQuantity - item.Quantity
		if diff < 0 {
			err = product.IncrementQuantity(ctx, tx, productID, -diff)
		} else {
			err = product.DecrementQuantity(ctx, tx, productID, diff)
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		queryItem := `UPDATE line_items SET quantity = $1, price = $2, updated_at = $3 WHERE id = $4`
		if _, err := tx.Exec(ctx, queryItem, newQuantity, newPrice, now, item.ID); err != nil {
			return fmt.Errorf("repository: failed to update line item %s: %w", item.ID, err)
		}

		item.Quantity = newQuantity
		item.Price = newPrice
		item.UpdatedAt = now
		updated = item

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteLineItem removes the line, subtracts its snapshotted price from the
// order total, and returns its quantity to stock. The order itself survives
// even if this was its last line.
func (r *postgresRepository) DeleteLineItem(ctx context.Context, orderID, productID uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		item, err := lockLineItem(ctx, tx, orderID, productID)
		if err != nil {
			return err
		}

		if _, err := lockOrder(ctx, tx, orderID); err != nil {
			return err
		}

		if _, err := product.LockProduct(ctx, tx, productID); err != nil {
			return err
		}

		if err := decrementTotal(ctx, tx, orderID, item.Price); err != nil {
			return err
		}

		if err := product.IncrementQuantity(ctx, tx, productID, item.Quantity); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE id = $1`, item.ID); err != nil {
			return fmt.Errorf("repository: failed to delete line item %s: %w", item.ID, err)
		}

		return nil
	})
}

func (r *postgresRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count customers: %w", err)
	}

	return count, nil
}

func (r *postgresRepository) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(sum(total), 0) FROM orders`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("repository: failed to sum order totals: %w", err)
	}

	return total, nil
}
