package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rangers-shop/api/internal/product"
)

type Service interface {
	CreateOrder(ctx context.Context, customerID string, lines []CartLine) (*Order, error)
	GetCustomerItems(ctx context.Context, customerID string) ([]CustomerItem, error)
	UpdateLineItem(ctx context.Context, orderID, productID uuid.UUID, newQuantity int) (*LineItem, error)
	DeleteLineItem(ctx context.Context, orderID, productID uuid.UUID) error
	Stats(ctx context.Context) (*ShopStats, error)
}

type service struct {
	orderRepo Repository
}

func NewService(orderRepo Repository) Service {
	return &service{orderRepo: orderRepo}
}

// CreateOrder places an order for the given customer. An empty cart is
// allowed and yields an order with a zero total and no line items.
func (s *service) CreateOrder(ctx context.Context, customerID string, lines []CartLine) (*Order, error) {
	if customerID == "" {
		return nil, errors.New("service: customer id is required")
	}

	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, errors.New("service: product id in cart line cannot be nil")
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("service: cart line quantity for product %s must be greater than zero", line.ProductID)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("service: cart line price for product %s cannot be negative", line.ProductID)
		}
	}

	createdOrder, err := s.orderRepo.CreateOrder(ctx, customerID, lines)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			log.Warn().Err(err).Str("customer_id", customerID).Msg("service: order referenced a missing product")
			return nil, err
		}
		log.Error().Err(err).Str("customer_id", customerID).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().
		Stringer("order_id", createdOrder.ID).
		Str("customer_id", customerID).
		Str("total", createdOrder.Total.String()).
		Int("lines", len(lines)).
		Msg("service: order created")

	return createdOrder, nil
}

func (s *service) GetCustomerItems(ctx context.Context, customerID string) ([]CustomerItem, error) {
	if customerID == "" {
		return nil, errors.New("service: customer id is required")
	}

	items, err := s.orderRepo.ListCustomerItems(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("service: failed to fetch customer items in repository")
		return nil, fmt.Errorf("service: failed to fetch customer items: %w", err)
	}

	return items, nil
}

func (s *service) UpdateLineItem(ctx context.Context, orderID, productID uuid.UUID, newQuantity int) (*LineItem, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("service: line item quantity cannot be negative, got %d", newQuantity)
	}

	item, err := s.orderRepo.UpdateLineItem(ctx, orderID, productID, newQuantity)
	if err != nil {
		return nil, s.mapMutationError(err, orderID, productID, "update line item")
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("product_id", productID).
		Int("quantity", newQuantity).
		Str("price", item.Price.String()).
		Msg("service: line item updated")

	return item, nil
}

func (s *service) DeleteLineItem(ctx context.Context, orderID, productID uuid.UUID) error {
	err := s.orderRepo.DeleteLineItem(ctx, orderID, productID)
	if err != nil {
		return s.mapMutationError(err, orderID, productID, "delete line item")
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("product_id", productID).
		Msg("service: line item deleted")

	return nil
}

func (s *service) Stats(ctx context.Context) (*ShopStats, error) {
	customers, err := s.orderRepo.CountCustomers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to count customers in repository")
		return nil, fmt.Errorf("service: failed to count customers: %w", err)
	}

	sales, err := s.orderRepo.SalesTotal(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to sum sales in repository")
		return nil, fmt.Errorf("service: failed to sum sales: %w", err)
	}

	return &ShopStats{Customers: customers, Sales: sales}, nil
}

func (s *service) mapMutationError(err error, orderID, productID uuid.UUID, op string) error {
	if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrLineItemNotFound) || errors.Is(err, product.ErrProductNotFound) {
		log.Warn().Err(err).
			Stringer("order_id", orderID).
			Stringer("product_id", productID).
			Msgf("service: %s referenced a missing entity", op)
		return err
	}

	log.Error().Err(err).
		Stringer("order_id", orderID).
		Stringer("product_id", productID).
		Msgf("service: failed to %s in repository", op)
	return fmt.Errorf("service: failed to %s: %w", op, err)
}
