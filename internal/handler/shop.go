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
	"github.com/rangers-shop/api/internal/product"
)

type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

type ProductResponse struct {
	ProdID      uuid.UUID       `json:"prod_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type StatsResponse struct {
	Products  int64           `json:"products"`
	Customers int64           `json:"customers"`
	Sales     decimal.Decimal `json:"sales"`
}

// ShopHandler serves the catalog routes and the storefront stats.
type ShopHandler struct {
	products product.Service
	orders   order.Service
	validate *validator.Validate
}

func NewShopHandler(products product.Service, orders order.Service) *ShopHandler {
	return &ShopHandler{products: products, orders: orders, validate: validator.New()}
}

func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list products")
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	responsePayload := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responsePayload = append(responsePayload, toProductResponse(&p))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *ShopHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	requestPayload, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	p := product.Product{
		Name:        requestPayload.Name,
		Image:       requestPayload.Image,
		Description: requestPayload.Description,
		Price:       requestPayload.Price,
		Quantity:    requestPayload.Quantity,
	}

	createdProduct, err := h.products.CreateProduct(r.Context(), &p)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to create product")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, toProductResponse(createdProduct))
}

func (h *ShopHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.FromString(chi.URLParam(r, "prod_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid prod_id parameter")
		return
	}

	requestPayload, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	p := product.Product{
		ID:          productID,
		Name:        requestPayload.Name,
		Image:       requestPayload.Image,
		Description: requestPayload.Description,
		Price:       requestPayload.Price,
		Quantity:    requestPayload.Quantity,
	}

	if err := h.products.UpdateProduct(r.Context(), &p); err != nil {
		log.Warn().Err(err).Stringer("product_id", productID).Msg("handler: failed to update product")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update product"))
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(&p))
}

func (h *ShopHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.FromString(chi.URLParam(r, "prod_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid prod_id parameter")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), productID); err != nil {
		log.Warn().Err(err).Stringer("product_id", productID).Msg("handler: failed to delete product")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to delete product"))
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Status:  http.StatusOK,
		Message: "Product was Successfully Deleted",
	})
}

func (h *ShopHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	productCount, err := h.products.CountProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to count products")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to fetch shop stats")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondWithJSON(w, http.StatusOK, StatsResponse{
		Products:  productCount,
		Customers: stats.Customers,
		Sales:     stats.Sales,
	})
}

func (h *ShopHandler) decodeProductRequest(w http.ResponseWriter, r *http.Request) (*ProductRequest, bool) {
	var requestPayload ProductRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return nil, false
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return nil, false
	}

	return &requestPayload, true
}

func toProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ProdID:      p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		Quantity:    p.Quantity,
	}
}
