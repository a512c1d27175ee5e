package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// NotificationWorker consumes order events and fans out notifications
// to the buyer and the farmer.
type NotificationWorker struct {
	channel          *amqp.Channel
	orderRepo        repository.OrderRepository
	notificationRepo repository.NotificationRepository
	redisClient      *redis.Client
	log              *slog.Logger
	done             chan struct{}
}

func NewNotificationWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	notificationRepo repository.NotificationRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		channel:          ch,
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
		log:              log,
		done:             make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notification worker started")
	return nil
}

func (w *NotificationWorker) Stop() { close(w.done) }

func (w *NotificationWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", event.OrderID, "event", event.Event)

	// Idempotency check via Redis
	idempotencyKey := fmt.Sprintf("order_event:%s:%s", event.Event, event.OrderID)
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("event already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.notify(ctx, event); err != nil {
		log.Error("notify failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("notifications sent")
}

func (w *NotificationWorker) notify(ctx context.Context, event model.OrderEvent) error {
	order, err := w.orderRepo.GetByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", event.OrderID)
	}

	var buyerNote, farmerNote model.Notification
	switch event.Event {
	case "placed":
		buyerNote = model.Notification{
			UserID:    event.BuyerID,
			Title:     "Order placed",
			Message:   fmt.Sprintf("Your order for %s has been placed.", order.ProductName),
			Type:      "order_placed",
			RelatedID: event.OrderID,
		}
		farmerNote = model.Notification{
			UserID:    event.FarmerID,
			Title:     "New order received",
			Message:   fmt.Sprintf("You received a new order for %s.", order.ProductName),
			Type:      "order_placed",
			RelatedID: event.OrderID,
		}
	case "cancelled":
		buyerNote = model.Notification{
			UserID:    event.BuyerID,
			Title:     "Order cancelled",
			Message:   fmt.Sprintf("Your order for %s has been cancelled.", order.ProductName),
			Type:      "order_cancelled",
			RelatedID: event.OrderID,
		}
		farmerNote = model.Notification{
			UserID:    event.FarmerID,
			Title:     "Order cancelled",
			Message:   fmt.Sprintf("An order for %s was cancelled; the quantity was restored.", order.ProductName),
			Type:      "order_cancelled",
			RelatedID: event.OrderID,
		}
	default:
		return fmt.Errorf("unknown event %q", event.Event)
	}

	if err := w.notificationRepo.Create(ctx, &buyerNote); err != nil {
		return fmt.Errorf("buyer notification: %w", err)
	}
	if err := w.notificationRepo.Create(ctx, &farmerNote); err != nil {
		return fmt.Errorf("farmer notification: %w", err)
	}
	return nil
}
