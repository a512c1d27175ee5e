package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

type favoriteKey struct {
	buyerID   uuid.UUID
	productID uuid.UUID
}

type mockFavoriteRepo struct {
	favorites   map[favoriteKey]bool
	productRepo *mockProductRepo
}

func newMockFavoriteRepo(productRepo *mockProductRepo) *mockFavoriteRepo {
	return &mockFavoriteRepo{favorites: make(map[favoriteKey]bool), productRepo: productRepo}
}

func (m *mockFavoriteRepo) Add(_ context.Context, buyerID, productID uuid.UUID) error {
	m.favorites[favoriteKey{buyerID, productID}] = true
	return nil
}

func (m *mockFavoriteRepo) Exists(_ context.Context, buyerID, productID uuid.UUID) (bool, error) {
	return m.favorites[favoriteKey{buyerID, productID}], nil
}

func (m *mockFavoriteRepo) Remove(_ context.Context, buyerID, productID uuid.UUID) error {
	delete(m.favorites, favoriteKey{buyerID, productID})
	return nil
}

func (m *mockFavoriteRepo) ListProducts(_ context.Context, buyerID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for key := range m.favorites {
		if key.buyerID != buyerID {
			continue
		}
		if p, ok := m.productRepo.products[key.productID]; ok && p.Status == model.ProductAvailable {
			out = append(out, *p)
		}
	}
	return out, nil
}

func TestFavoriteService_Add(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)
	buyerID := uuid.New()

	svc := NewFavoriteService(newMockFavoriteRepo(productRepo), productRepo)
	err := svc.Add(context.Background(), buyerID, productID)
	require.NoError(t, err)

	products, err := svc.List(context.Background(), buyerID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, productID, products[0].ID)
}

func TestFavoriteService_Add_Duplicate(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)
	buyerID := uuid.New()

	svc := NewFavoriteService(newMockFavoriteRepo(productRepo), productRepo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, buyerID, productID))
	err := svc.Add(ctx, buyerID, productID)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
}

func TestFavoriteService_Add_ProductMissing(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewFavoriteService(newMockFavoriteRepo(productRepo), productRepo)
	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFavoriteService_List_SkipsSoldProducts(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)
	buyerID := uuid.New()

	svc := NewFavoriteService(newMockFavoriteRepo(productRepo), productRepo)
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, buyerID, productID))

	productRepo.products[productID].Status = model.ProductSold

	products, err := svc.List(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFavoriteService_Remove(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)
	buyerID := uuid.New()

	svc := NewFavoriteService(newMockFavoriteRepo(productRepo), productRepo)
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, buyerID, productID))
	require.NoError(t, svc.Remove(ctx, buyerID, productID))

	products, err := svc.List(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, products)
}
