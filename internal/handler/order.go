package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rangers-shop/api/internal/order"
)

type CartLineRequest struct {
	ProdID   uuid.UUID       `json:"prod_id" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	Order []CartLineRequest `json:"order" validate:"dive"`
}

type CreateOrderResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"order_id"`
}

type UpdateLineItemRequest struct {
	ProdID   uuid.UUID `json:"prod_id" validate:"required"`
	Quantity *int      `json:"quantity" validate:"required"`
}

type DeleteLineItemRequest struct {
	ProdID uuid.UUID `json:"prod_id" validate:"required"`
}

// OrderHandler handles the order lifecycle routes.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc, validate: validator.New()}
}

// CreateOrder places a new order for the customer in the URL. An empty cart
// is accepted and produces an order with a zero total.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "cust_id")
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "cust_id is required")
		return
	}

	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if requestPayload.Order == nil {
		respondWithError(w, http.StatusBadRequest, "order is required")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	lines := make([]order.CartLine, 0, len(requestPayload.Order))
	for _, line := range requestPayload.Order {
		lines = append(lines, order.CartLine{
			ProductID: line.ProdID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	createdOrder, err := h.svc.CreateOrder(r.Context(), customerID, lines)
	if err != nil {
		log.Warn().Err(err).Str("customer_id", customerID).Msg("handler: failed to create order")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create order"))
		return
	}

	respondWithJSON(w, http.StatusOK, CreateOrderResponse{
		Status:  http.StatusOK,
		Message: "New Order was Created",
		OrderID: createdOrder.ID,
	})
}

// GetCustomerOrders returns every line item the customer has placed, joined
// with the product it refers to.
func (h *OrderHandler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "cust_id")
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "cust_id is required")
		return
	}

	items, err := h.svc.GetCustomerItems(r.Context(), customerID)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("handler: failed to fetch customer orders")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to fetch orders")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *OrderHandler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "order_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order_id parameter")
		return
	}

	var requestPayload UpdateLineItemRequest

	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	_, err = h.svc.UpdateLineItem(r.Context(), orderID, requestPayload.ProdID, *requestPayload.Quantity)
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", orderID).Msg("handler: failed to update line item")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update order"))
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Status:  http.StatusOK,
		Message: "Order was Updated Successfully",
	})
}

func (h *OrderHandler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "order_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order_id parameter")
		return
	}

	var requestPayload DeleteLineItemRequest

	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	if err := h.svc.DeleteLineItem(r.Context(), orderID, requestPayload.ProdID); err != nil {
		log.Warn().Err(err).Stringer("order_id", orderID).Msg("handler: failed to delete line item")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to delete order"))
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Status:  http.StatusOK,
		Message: "Order was Successfully Deleted",
	})
}

// clientMessage keeps internal error text out of responses: not-found errors
// are safe to echo, anything else gets the generic fallback.
func clientMessage(err error, fallback string) string {
	if mapErrorToStatusCode(err) == http.StatusNotFound {
		return err.Error()
	}
	return fallback
}
