package service

import (
	"context"
	"strings"
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

// mockOrderRepo mirrors the transactional semantics of the real repository:
// Place decrements stock conditionally and Cancel restores it.
type mockOrderRepo struct {
	orders      map[uuid.UUID]*model.Order
	productRepo *mockProductRepo
}

func newMockOrderRepo(productRepo *mockProductRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order), productRepo: productRepo}
}

func (m *mockOrderRepo) Place(_ context.Context, order *model.Order) error {
	p, ok := m.productRepo.products[order.ProductID]
	if !ok || p.Status != model.ProductAvailable || p.Quantity < order.Quantity {
		return repository.ErrInsufficientStock
	}
	p.Quantity -= order.Quantity
	if p.Quantity <= 0 {
		p.Status = model.ProductSold
	}

	order.ID = uuid.New()
	order.Status = model.OrderPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) Cancel(_ context.Context, orderID uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[orderID]
	if !ok || (o.Status != model.OrderPending && o.Status != model.OrderConfirmed) {
		return nil, nil
	}
	o.Status = model.OrderCancelled
	if p, ok := m.productRepo.products[o.ProductID]; ok {
		p.Quantity += o.Quantity
		p.Status = model.ProductAvailable
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListByFarmer(_ context.Context, farmerID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.FarmerID == farmerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context, search string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if search == "" || strings.Contains(o.ProductName, search) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func seedProduct(repo *mockProductRepo, farmerID uuid.UUID, quantity int) uuid.UUID {
	id := uuid.New()
	repo.products[id] = &model.Product{
		ID: id, FarmerID: farmerID, Name: "Tomatoes",
		PricePerUnit: decimal.NewFromInt(30), Unit: "kg",
		Quantity: quantity, Status: model.ProductAvailable,
	}
	return id
}

func TestOrderService_Place_DecrementsStock(t *testing.T) {
	productRepo := newMockProductRepo()
	farmerID := uuid.New()
	productID := seedProduct(productRepo, farmerID, 100)

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	order, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 10, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 90, productRepo.products[productID].Quantity)
}

func TestOrderService_Place_InsufficientStock(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 5)

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	_, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 6, DeliveryAddress: "12 Main St",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, productRepo.products[productID].Quantity)
}

func TestOrderService_Place_ExactStockMarksSold(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	_, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 10, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductSold, productRepo.products[productID].Status)

	// A follow-up order against the sold-out product is rejected.
	_, err = svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 1, DeliveryAddress: "12 Main St",
	})
	assert.ErrorIs(t, err, ErrProductNotAvailable)
}

func TestOrderService_Place_ProductNotFound(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	_, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: uuid.New(), Quantity: 1, DeliveryAddress: "12 Main St",
	})
	assert.ErrorIs(t, err, ErrProductNotAvailable)
}

func TestOrderService_Cancel_RestoresStock(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)
	buyerID := uuid.New()

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	order, err := svc.Place(context.Background(), buyerID, dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 10, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)
	require.Equal(t, model.ProductSold, productRepo.products[productID].Status)

	cancelled, err := svc.Cancel(context.Background(), buyerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, productRepo.products[productID].Quantity)
	assert.Equal(t, model.ProductAvailable, productRepo.products[productID].Status)
}

func TestOrderService_Cancel_WrongBuyer(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	order, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 1, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), uuid.New(), order.ID)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)
}

func TestOrderService_Cancel_ShippedOrder(t *testing.T) {
	productRepo := newMockProductRepo()
	farmerID := uuid.New()
	productID := seedProduct(productRepo, farmerID, 10)
	buyerID := uuid.New()

	orderRepo := newMockOrderRepo(productRepo)
	svc := NewOrderService(orderRepo, productRepo, nil)
	order, err := svc.Place(context.Background(), buyerID, dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 1, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)

	orderRepo.orders[order.ID].Status = model.OrderShipped

	_, err = svc.Cancel(context.Background(), buyerID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestOrderService_UpdateStatusAsFarmer_Transitions(t *testing.T) {
	productRepo := newMockProductRepo()
	farmerID := uuid.New()
	productID := seedProduct(productRepo, farmerID, 10)

	orderRepo := newMockOrderRepo(productRepo)
	svc := NewOrderService(orderRepo, productRepo, nil)
	order, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 1, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)
	ctx := context.Background()

	// pending -> shipped skips confirmed
	err = svc.UpdateStatusAsFarmer(ctx, farmerID, order.ID, model.OrderShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.UpdateStatusAsFarmer(ctx, farmerID, order.ID, model.OrderConfirmed))
	require.NoError(t, svc.UpdateStatusAsFarmer(ctx, farmerID, order.ID, model.OrderShipped))
	require.NoError(t, svc.UpdateStatusAsFarmer(ctx, farmerID, order.ID, model.OrderDelivered))

	// delivered is terminal
	err = svc.UpdateStatusAsFarmer(ctx, farmerID, order.ID, model.OrderConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderService_UpdateStatusAsFarmer_WrongFarmer(t *testing.T) {
	productRepo := newMockProductRepo()
	productID := seedProduct(productRepo, uuid.New(), 10)

	svc := NewOrderService(newMockOrderRepo(productRepo), productRepo, nil)
	order, err := svc.Place(context.Background(), uuid.New(), dto.PlaceOrderRequest{
		ProductID: productID, Quantity: 1, DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)

	err = svc.UpdateStatusAsFarmer(context.Background(), uuid.New(), order.ID, model.OrderConfirmed)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)
}
