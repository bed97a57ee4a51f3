package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rangers-shop/api/internal/auth"
	"github.com/rangers-shop/api/internal/handler"
	"github.com/rangers-shop/api/internal/order"
	"github.com/rangers-shop/api/internal/product"
	"github.com/rangers-shop/api/internal/user"
)

// NewRouter wires repositories, services, and handlers onto the API routes.
// Everything under /api except token issuing and signup/signin requires a
// bearer token.
func NewRouter(pool *pgxpool.Pool, tokens *auth.TokenManager) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	productRepo := product.NewRepository(pool)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(pool)
	orderSvc := order.NewService(orderRepo)

	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo)

	tokenHandler := handler.NewTokenHandler(tokens)
	shopHandler := handler.NewShopHandler(productSvc, orderSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	userHandler := handler.NewUserHandler(userSvc, tokens)

	r.Route("/api", func(api chi.Router) {
		api.Post("/token", tokenHandler.IssueToken)
		api.Post("/auth/signup", userHandler.Signup)
		api.Post("/auth/signin", userHandler.Signin)

		api.Group(func(protected chi.Router) {
			protected.Use(tokens.RequireToken)

			protected.Get("/shop", shopHandler.ListProducts)
			protected.Post("/shop", shopHandler.CreateProduct)
			protected.Put("/shop/{prod_id}", shopHandler.UpdateProduct)
			protected.Delete("/shop/{prod_id}", shopHandler.DeleteProduct)
			protected.Get("/stats", shopHandler.GetStats)

			protected.Post("/order/create/{cust_id}", orderHandler.CreateOrder)
			protected.Get("/order/{cust_id}", orderHandler.GetCustomerOrders)
			protected.Put("/order/update/{order_id}", orderHandler.UpdateLineItem)
			protected.Delete("/order/delete/{order_id}", orderHandler.DeleteLineItem)
		})
	})

	return r
}
