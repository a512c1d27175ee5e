//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

func createTestUser(t *testing.T, username, role string) *model.User {
	t.Helper()
	repo := NewUserRepository(testPool)
	u := &model.User{
		Username: username, Email: username + "@example.com",
		Password: "hashed", Role: role, FullName: "Test " + username,
		Phone: "1234567890", Location: "Testville",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createTestProduct(t *testing.T, quantity int) *model.Product {
	t.Helper()
	repo := NewProductRepository(testPool)
	farmer := createTestUser(t, "testfarmer", model.RoleFarmer)
	p := &model.Product{
		FarmerID: farmer.ID, Name: "Test Tomatoes", Description: "fresh",
		Category: "vegetables", PricePerUnit: decimal.NewFromInt(30), Unit: "kg",
		Quantity: quantity, QualityGrade: "A", Status: model.ProductAvailable,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestUserRepository_Integration(t *testing.T) {
	cleanupTable(t, "orders", "products", "users")
	repo := NewUserRepository(testPool)
	ctx := context.Background()

	u := createTestUser(t, "ramesh", model.RoleFarmer)
	assert.Equal(t, model.VerificationPending, u.VerificationStatus)
	assert.True(t, u.IsActive)

	found, err := repo.GetByEmailAndRole(ctx, "ramesh@example.com", model.RoleFarmer)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	// Wrong role does not match.
	miss, err := repo.GetByEmailAndRole(ctx, "ramesh@example.com", model.RoleBuyer)
	require.NoError(t, err)
	assert.Nil(t, miss)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "ramesh", "other@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.UpdateVerificationStatus(ctx, u.ID, model.VerificationVerified))
	verified, _ := repo.GetByID(ctx, u.ID)
	assert.Equal(t, model.VerificationVerified, verified.VerificationStatus)

	require.NoError(t, repo.Delete(ctx, u.ID))
	gone, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestOrderRepository_PlaceAndCancel_Integration(t *testing.T) {
	cleanupTable(t, "orders", "products", "users")
	ctx := context.Background()

	productRepo := NewProductRepository(testPool)
	orderRepo := NewOrderRepository(testPool)

	product := createTestProduct(t, 10)
	buyer := createTestUser(t, "buyer1", model.RoleBuyer)

	order := &model.Order{
		BuyerID: buyer.ID, FarmerID: product.FarmerID, ProductID: product.ID,
		Quantity: 10, Unit: "kg", TotalAmount: decimal.NewFromInt(300),
		DeliveryAddress: "12 Main St",
	}
	require.NoError(t, orderRepo.Place(ctx, order))
	assert.Equal(t, model.OrderPending, order.Status)

	// Stock drained to zero flips the product to sold.
	p, _ := productRepo.GetByID(ctx, product.ID)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, model.ProductSold, p.Status)

	// Oversell against the sold-out product fails.
	over := &model.Order{
		BuyerID: buyer.ID, FarmerID: product.FarmerID, ProductID: product.ID,
		Quantity: 1, Unit: "kg", TotalAmount: decimal.NewFromInt(30),
		DeliveryAddress: "12 Main St",
	}
	err := orderRepo.Place(ctx, over)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Cancel restores the stock and reopens the product.
	cancelled, err := orderRepo.Cancel(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, cancelled)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)

	p, _ = productRepo.GetByID(ctx, product.ID)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, model.ProductAvailable, p.Status)

	// A cancelled order cannot be cancelled again.
	again, err := orderRepo.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestProductRepository_Marketplace_Integration(t *testing.T) {
	cleanupTable(t, "orders", "products", "users")
	ctx := context.Background()
	repo := NewProductRepository(testPool)

	product := createTestProduct(t, 5)

	products, total, err := repo.ListMarketplace(ctx, MarketplaceFilter{
		Search: "Tomatoes", Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
	assert.NotEmpty(t, products[0].FarmerName)

	// Sold products are filtered out of the marketplace.
	require.NoError(t, repo.UpdateStatus(ctx, product.ID, model.ProductSold))
	_, total, err = repo.ListMarketplace(ctx, MarketplaceFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
