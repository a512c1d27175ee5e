package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAccessDenied   = errors.New("access denied")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInsufficientStock   = errors.New("requested quantity exceeds available stock")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

const orderQueueName = "orders"

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo, amqpCh: amqpCh}
}

func (s *OrderService) Place(ctx context.Context, buyerID uuid.UUID, req dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil || product.Status != model.ProductAvailable {
		return nil, ErrProductNotAvailable
	}
	if req.Quantity > product.Quantity {
		return nil, ErrInsufficientStock
	}

	order := &model.Order{
		BuyerID:         buyerID,
		FarmerID:        product.FarmerID,
		ProductID:       product.ID,
		Quantity:        req.Quantity,
		Unit:            product.Unit,
		TotalAmount:     product.PricePerUnit.Mul(decimal.NewFromInt(int64(req.Quantity))),
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	if err := s.orderRepo.Place(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// A concurrent order consumed the stock between the read above
			// and the conditional decrement.
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.publishEvent(ctx, "placed", order)

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) Cancel(ctx context.Context, buyerID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.BuyerID != buyerID {
		return nil, ErrOrderAccessDenied
	}
	if order.Status != model.OrderPending && order.Status != model.OrderConfirmed {
		return nil, ErrOrderNotCancellable
	}

	cancelled, err := s.orderRepo.Cancel(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if cancelled == nil {
		// Raced with a status change since the read above.
		return nil, ErrOrderNotCancellable
	}

	s.publishEvent(ctx, "cancelled", cancelled)

	resp := toOrderResponse(cancelled)
	return &resp, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list buyer orders: %w", err)
	}
	return toOrderList(orders), nil
}

func (s *OrderService) ListByFarmer(ctx context.Context, farmerID uuid.UUID) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list farmer orders: %w", err)
	}
	return toOrderList(orders), nil
}

// UpdateStatusAsFarmer moves one of the farmer's own orders forward through
// pending -> confirmed -> shipped -> delivered. Cancelled and delivered
// orders are terminal.
func (s *OrderService) UpdateStatusAsFarmer(ctx context.Context, farmerID, orderID uuid.UUID, status string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.FarmerID != farmerID {
		return ErrOrderAccessDenied
	}
	if !allowedTransition(order.Status, status) {
		return ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func allowedTransition(from, to string) bool {
	switch from {
	case model.OrderPending:
		return to == model.OrderConfirmed
	case model.OrderConfirmed:
		return to == model.OrderShipped
	case model.OrderShipped:
		return to == model.OrderDelivered
	}
	return false
}

func (s *OrderService) publishEvent(ctx context.Context, event string, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderEvent{
		Event:    event,
		OrderID:  order.ID,
		BuyerID:  order.BuyerID,
		FarmerID: order.FarmerID,
	})
	_ = s.amqpCh.PublishWithContext(ctx, "", orderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              order.ID,
		BuyerID:         order.BuyerID,
		FarmerID:        order.FarmerID,
		ProductID:       order.ProductID,
		ProductName:     order.ProductName,
		Quantity:        order.Quantity,
		Unit:            order.Unit,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		BuyerName:       order.BuyerName,
		BuyerPhone:      order.BuyerPhone,
		FarmerName:      order.FarmerName,
		FarmerPhone:     order.FarmerPhone,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrderList(orders []model.Order) *dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Orders: items, Total: len(items)}
}
