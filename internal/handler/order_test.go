package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rangers-shop/api/internal/handler"
	"github.com/rangers-shop/api/internal/order"
	"github.com/rangers-shop/api/internal/product"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, customerID string, lines []order.CartLine) (*order.Order, error) {
	args := m.Called(ctx, customerID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetCustomerItems(ctx context.Context, customerID string) ([]order.CustomerItem, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.CustomerItem), args.Error(1)
}

func (m *MockOrderService) UpdateLineItem(ctx context.Context, orderID, productID uuid.UUID, newQuantity int) (*order.LineItem, error) {
	args := m.Called(ctx, orderID, productID, newQuantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.LineItem), args.Error(1)
}

func (m *MockOrderService) DeleteLineItem(ctx context.Context, orderID, productID uuid.UUID) error {
	args := m.Called(ctx, orderID, productID)
	return args.Error(0)
}

func (m *MockOrderService) Stats(ctx context.Context) (*order.ShopStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ShopStats), args.Error(1)
}

func newOrderRouter(svc order.Service) *chi.Mux {
	h := handler.NewOrderHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/order/create/{cust_id}", h.CreateOrder)
	r.Get("/api/order/{cust_id}", h.GetCustomerOrders)
	r.Put("/api/order/update/{order_id}", h.UpdateLineItem)
	r.Delete("/api/order/delete/{order_id}", h.DeleteLineItem)
	return r
}

func TestOrderHandler_CreateOrder_Success(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	productID := uuid.Must(uuid.NewV4())
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("CreateOrder", mock.Anything, "cust-1", mock.MatchedBy(func(lines []order.CartLine) bool {
		return len(lines) == 1 &&
			lines[0].ProductID == productID &&
			lines[0].Quantity == 3 &&
			lines[0].Price.Equal(decimal.RequireFromString("10.00"))
	})).Return(&order.Order{ID: orderID, Total: decimal.RequireFromString("30.00")}, nil).Once()

	body := []byte(`{"order":[{"prod_id":"` + productID.String() + `","quantity":3,"price":10.00}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/order/create/cust-1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload handler.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	assert.Equal(t, http.StatusOK, responsePayload.Status)
	assert.Equal(t, "New Order was Created", responsePayload.Message)
	assert.Equal(t, orderID, responsePayload.OrderID)

	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_EmptyCart(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	orderID := uuid.Must(uuid.NewV4())
	mockService.On("CreateOrder", mock.Anything, "cust-1", mock.MatchedBy(func(lines []order.CartLine) bool {
		return len(lines) == 0
	})).Return(&order.Order{ID: orderID, Total: decimal.Zero}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/order/create/cust-1", bytes.NewBufferString(`{"order":[]}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_MissingOrderField(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/order/create/cust-1", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_CreateOrder_InvalidQuantity(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	productID := uuid.Must(uuid.NewV4())
	body := []byte(`{"order":[{"prod_id":"` + productID.String() + `","quantity":0,"price":10.00}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/order/create/cust-1", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrderHandler_CreateOrder_ProductNotFound(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	productID := uuid.Must(uuid.NewV4())
	mockService.On("CreateOrder", mock.Anything, "cust-1", mock.Anything).
		Return(nil, product.ErrProductNotFound).Once()

	body := []byte(`{"order":[{"prod_id":"` + productID.String() + `","quantity":3,"price":10.00}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/order/create/cust-1", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderHandler_GetCustomerOrders(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	items := []order.CustomerItem{
		{
			ID:       uuid.Must(uuid.NewV4()),
			OrderID:  uuid.Must(uuid.NewV4()),
			Name:     "Red Ranger Blaster",
			Price:    decimal.RequireFromString("10.00"),
			Quantity: 3,
		},
	}
	mockService.On("GetCustomerItems", mock.Anything, "cust-1").Return(items, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/order/cust-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var responsePayload []order.CustomerItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
	require.Len(t, responsePayload, 1)
	assert.Equal(t, items[0].ID, responsePayload[0].ID)
	assert.Equal(t, 3, responsePayload[0].Quantity)
}

func TestOrderHandler_UpdateLineItem(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())
	productID := uuid.Must(uuid.NewV4())

	t.Run("success", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		mockService.On("UpdateLineItem", mock.Anything, orderID, productID, 5).
			Return(&order.LineItem{
				OrderID:   orderID,
				ProductID: productID,
				Quantity:  5,
				Price:     decimal.RequireFromString("50.00"),
			}, nil).Once()

		body := []byte(`{"prod_id":"` + productID.String() + `","quantity":5}`)
		req := httptest.NewRequest(http.MethodPut, "/api/order/update/"+orderID.String(), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var responsePayload handler.MessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
		assert.Equal(t, "Order was Updated Successfully", responsePayload.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid_order_id", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		body := []byte(`{"prod_id":"` + productID.String() + `","quantity":5}`)
		req := httptest.NewRequest(http.MethodPut, "/api/order/update/not-a-uuid", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing_quantity", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		body := []byte(`{"prod_id":"` + productID.String() + `"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/order/update/"+orderID.String(), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("line_item_not_found", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		mockService.On("UpdateLineItem", mock.Anything, orderID, productID, 5).
			Return(nil, order.ErrLineItemNotFound).Once()

		body := []byte(`{"prod_id":"` + productID.String() + `","quantity":5}`)
		req := httptest.NewRequest(http.MethodPut, "/api/order/update/"+orderID.String(), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestOrderHandler_DeleteLineItem(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())
	productID := uuid.Must(uuid.NewV4())

	t.Run("success", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		mockService.On("DeleteLineItem", mock.Anything, orderID, productID).Return(nil).Once()

		body := []byte(`{"prod_id":"` + productID.String() + `"}`)
		req := httptest.NewRequest(http.MethodDelete, "/api/order/delete/"+orderID.String(), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var responsePayload handler.MessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &responsePayload))
		assert.Equal(t, "Order was Successfully Deleted", responsePayload.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("order_not_found", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := newOrderRouter(mockService)

		mockService.On("DeleteLineItem", mock.Anything, orderID, productID).
			Return(order.ErrOrderNotFound).Once()

		body := []byte(`{"prod_id":"` + productID.String() + `"}`)
		req := httptest.NewRequest(http.MethodDelete, "/api/order/delete/"+orderID.String(), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
