package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) ListByFarmer(_ context.Context, farmerID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.FarmerID == farmerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) ListMarketplace(_ context.Context, f repository.MarketplaceFilter) ([]model.Product, int, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.Status == model.ProductAvailable {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *mockProductRepo) ListAll(_ context.Context, _ string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepo) UpdateImagePath(_ context.Context, id uuid.UUID, imagePath string) error {
	if p, ok := m.products[id]; ok {
		p.ImagePath = imagePath
	}
	return nil
}

func (m *mockProductRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if p, ok := m.products[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestProductService_Create_DefaultsGrade(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name: "Tomatoes", Description: "fresh", Category: "vegetables",
		PricePerUnit: decimal.NewFromInt(30), Unit: "kg", Quantity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "B", resp.QualityGrade)
	assert.Equal(t, model.ProductAvailable, resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Update_NotOwner(t *testing.T) {
	repo := newMockProductRepo()
	productID := uuid.New()
	repo.products[productID] = &model.Product{
		ID: productID, FarmerID: uuid.New(), Name: "Rice",
		PricePerUnit: decimal.NewFromInt(40), Quantity: 10,
		Status: model.ProductAvailable,
	}

	svc := NewProductService(repo, nil)
	_, err := svc.Update(context.Background(), uuid.New(), productID, dto.UpdateProductRequest{
		Name: strPtr("Basmati Rice"),
	})
	assert.ErrorIs(t, err, ErrNotProductOwner)
}

func TestProductService_Update_RestockReopensSoldProduct(t *testing.T) {
	repo := newMockProductRepo()
	farmerID := uuid.New()
	productID := uuid.New()
	repo.products[productID] = &model.Product{
		ID: productID, FarmerID: farmerID, Name: "Wheat",
		PricePerUnit: decimal.NewFromInt(25), Quantity: 0,
		Status: model.ProductSold,
	}

	svc := NewProductService(repo, nil)
	resp, err := svc.Update(context.Background(), farmerID, productID, dto.UpdateProductRequest{
		Quantity: intPtr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Quantity)
	assert.Equal(t, model.ProductAvailable, resp.Status)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Marketplace_Pagination(t *testing.T) {
	repo := newMockProductRepo()
	farmerID := uuid.New()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		repo.products[id] = &model.Product{
			ID: id, FarmerID: farmerID, Name: "Onions",
			PricePerUnit: decimal.NewFromInt(20), Quantity: 5,
			Status: model.ProductAvailable,
		}
	}

	svc := NewProductService(repo, nil)
	list, err := svc.Marketplace(context.Background(), dto.MarketplaceQuery{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 12, list.Limit)
}
