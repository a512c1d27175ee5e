package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

const (
	ProductAvailable  = "available"
	ProductSold       = "sold"
	ProductOutOfStock = "out_of_stock"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

type User struct {
	ID                 uuid.UUID
	Username           string
	Email              string
	Password           string
	Role               string
	FullName           string
	Phone              string
	Address            string
	Location           string
	VerificationStatus string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Product struct {
	ID           uuid.UUID
	FarmerID     uuid.UUID
	Name         string
	Description  string
	Category     string
	PricePerUnit decimal.Decimal
	Unit         string
	Quantity     int
	Organic      bool
	QualityGrade string
	Status       string
	ImagePath    string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined farmer fields, populated by marketplace queries.
	FarmerName     string
	FarmerPhone    string
	FarmerLocation string
}

type Order struct {
	ID              uuid.UUID
	BuyerID         uuid.UUID
	FarmerID        uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	Unit            string
	TotalAmount     decimal.Decimal
	Status          string
	DeliveryAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields for order listings.
	ProductName string
	BuyerName   string
	BuyerPhone  string
	FarmerName  string
	FarmerPhone string
}

type Favorite struct {
	BuyerID   uuid.UUID
	ProductID uuid.UUID
	CreatedAt time.Time
}

type ChatSession struct {
	SessionID string
	UserIP    string
	UserAgent string
	CreatedAt time.Time
}

type ChatMessage struct {
	ID             int64
	SessionID      string
	MessageType    string // "user" or "bot"
	Message        string
	ResponseTimeMs int
	CreatedAt      time.Time
}

type PricePoint struct {
	Price      decimal.Decimal
	RecordedAt time.Time
}

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      string
	RelatedID uuid.UUID
	Read      bool
	CreatedAt time.Time
}

// OrderEvent is published to RabbitMQ when an order is placed or cancelled
// and consumed by the notification worker.
type OrderEvent struct {
	Event    string    `json:"event"` // "placed" or "cancelled"
	OrderID  uuid.UUID `json:"order_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
	FarmerID uuid.UUID `json:"farmer_id"`
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func ValidProductStatus(s string) bool {
	switch s {
	case ProductAvailable, ProductSold, ProductOutOfStock:
		return true
	}
	return false
}
