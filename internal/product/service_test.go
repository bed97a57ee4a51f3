package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangers-shop/api/internal/product"
)

type mockProductRepository struct {
	createFunc  func(ctx context.Context, p *product.Product) (uuid.UUID, error)
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	listFunc    func(ctx context.Context) ([]product.Product, error)
	updateFunc  func(ctx context.Context, p *product.Product) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
	countFunc   func(ctx context.Context) (int64, error)
}

func (m *mockProductRepository) Create(ctx context.Context, p *product.Product) (uuid.UUID, error) {
	return m.createFunc(ctx, p)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) List(ctx context.Context) ([]product.Product, error) {
	return m.listFunc(ctx)
}

func (m *mockProductRepository) Update(ctx context.Context, p *product.Product) error {
	return m.updateFunc(ctx, p)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockProductRepository) Count(ctx context.Context) (int64, error) {
	return m.countFunc(ctx)
}

func TestProductService_CreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		product    *product.Product
		createFunc func(ctx context.Context, p *product.Product) (uuid.UUID, error)
		wantErr    bool
	}{
		{
			name:    "missing_name",
			product: &product.Product{Price: decimal.RequireFromString("10.00"), Quantity: 5},
			wantErr: true,
		},
		{
			name: "negative_price",
			product: &product.Product{
				Name:  "Megazord Model Kit",
				Price: decimal.RequireFromString("-0.01"),
			},
			wantErr: true,
		},
		{
			name: "negative_quantity",
			product: &product.Product{
				Name:     "Megazord Model Kit",
				Price:    decimal.RequireFromString("10.00"),
				Quantity: -1,
			},
			wantErr: true,
		},
		{
			name: "successful_creation",
			product: &product.Product{
				Name:     "Megazord Model Kit",
				Price:    decimal.RequireFromString("49.99"),
				Quantity: 20,
			},
			createFunc: func(ctx context.Context, p *product.Product) (uuid.UUID, error) {
				id := uuid.Must(uuid.NewV4())
				p.ID = id
				return id, nil
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockProductRepository{createFunc: tt.createFunc}
			svc := product.NewService(mockRepo)

			createdProduct, err := svc.CreateProduct(context.Background(), tt.product)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, createdProduct.ID)
		})
	}
}

func TestProductService_GetProductByID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	t.Run("not_found", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
				return nil, product.ErrProductNotFound
			},
		}
		svc := product.NewService(mockRepo)

		_, err := svc.GetProductByID(context.Background(), id)
		assert.True(t, errors.Is(err, product.ErrProductNotFound))
	})

	t.Run("found", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			getByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*product.Product, error) {
				assert.Equal(t, id, gotID)
				return &product.Product{ID: gotID, Name: "Red Ranger Blaster"}, nil
			},
		}
		svc := product.NewService(mockRepo)

		p, err := svc.GetProductByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Red Ranger Blaster", p.Name)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			updateFunc: func(ctx context.Context, p *product.Product) error {
				return product.ErrProductNotFound
			},
		}
		svc := product.NewService(mockRepo)

		err := svc.UpdateProduct(context.Background(), &product.Product{
			ID:    uuid.Must(uuid.NewV4()),
			Name:  "Red Ranger Blaster",
			Price: decimal.RequireFromString("10.00"),
		})
		assert.True(t, errors.Is(err, product.ErrProductNotFound))
	})

	t.Run("missing_name", func(t *testing.T) {
		svc := product.NewService(&mockProductRepository{})

		err := svc.UpdateProduct(context.Background(), &product.Product{ID: uuid.Must(uuid.NewV4())})
		assert.Error(t, err)
	})
}

func TestProductService_CountProducts(t *testing.T) {
	mockRepo := &mockProductRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 7, nil },
	}
	svc := product.NewService(mockRepo)

	count, err := svc.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
