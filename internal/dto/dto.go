package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth ---

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=farmer buyer"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=farmer buyer admin"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	FullName           string    `json:"full_name"`
	Phone              string    `json:"phone"`
	Location           string    `json:"location"`
	VerificationStatus string    `json:"verification_status"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Location string `json:"location"`
}

// --- Products ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	Organic      bool            `json:"organic"`
	QualityGrade string          `json:"quality_grade" binding:"omitempty,oneof=A B C"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	Unit         *string          `json:"unit"`
	Quantity     *int             `json:"quantity" binding:"omitempty,min=0"`
	Organic      *bool            `json:"organic"`
	QualityGrade *string          `json:"quality_grade" binding:"omitempty,oneof=A B C"`
}

type MarketplaceQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Location string `form:"location"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=12" binding:"min=1,max=100"`
}

type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	FarmerID       uuid.UUID       `json:"farmer_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	Unit           string          `json:"unit"`
	Quantity       int             `json:"quantity"`
	Organic        bool            `json:"organic"`
	QualityGrade   string          `json:"quality_grade"`
	Status         string          `json:"status"`
	ImagePath      string          `json:"image_path,omitempty"`
	FarmerName     string          `json:"farmer_name,omitempty"`
	FarmerPhone    string          `json:"farmer_phone,omitempty"`
	FarmerLocation string          `json:"farmer_location,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type UploadImageResponse struct {
	ImagePath string `json:"image_path"`
}

// --- Orders ---

type PlaceOrderRequest struct {
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required,min=1"`
	DeliveryAddress string    `json:"delivery_address" binding:"required"`
	Notes           string    `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	FarmerID        uuid.UUID       `json:"farmer_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        int             `json:"quantity"`
	Unit            string          `json:"unit"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes,omitempty"`
	BuyerName       string          `json:"buyer_name,omitempty"`
	BuyerPhone      string          `json:"buyer_phone,omitempty"`
	FarmerName      string          `json:"farmer_name,omitempty"`
	FarmerPhone     string          `json:"farmer_phone,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Favorites ---

type FavoriteRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// --- Admin ---

type AdminStatsResponse struct {
	TotalUsers    int             `json:"total_users"`
	TotalFarmers  int             `json:"total_farmers"`
	TotalBuyers   int             `json:"total_buyers"`
	TotalProducts int             `json:"total_products"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	NewUsers30d   int             `json:"new_users_month"`
	NewOrders30d  int             `json:"new_orders_month"`
}

type UpdateUserStatusRequest struct {
	VerificationStatus string `json:"verification_status" binding:"required,oneof=pending verified rejected"`
}

type UpdateProductStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Dashboards ---

type FarmerStatsResponse struct {
	TotalProducts  int             `json:"total_products"`
	ActiveProducts int             `json:"active_products"`
	TotalOrders    int             `json:"total_orders"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
}

type BuyerStatsResponse struct {
	TotalOrders       int             `json:"total_orders"`
	PendingOrders     int             `json:"pending_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AvailableProducts int             `json:"available_products"`
}

// --- Analytics ---

type MonthlySeries struct {
	Labels []string          `json:"labels"`
	Sales  []decimal.Decimal `json:"sales"`
	Orders []int             `json:"orders"`
	Users  []int             `json:"users"`
}

type TopFarmer struct {
	FullName     string          `json:"full_name"`
	Location     string          `json:"location"`
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type CategoryPerformance struct {
	Category     string          `json:"category"`
	ProductCount int             `json:"product_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type OrderStatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type AnalyticsResponse struct {
	Monthly     MonthlySeries         `json:"monthly"`
	TopFarmers  []TopFarmer           `json:"topFarmers"`
	Categories  []CategoryPerformance `json:"categories"`
	OrderStatus []OrderStatusCount    `json:"orderStatus"`
}

// --- Price prediction ---

type PricePredictionRequest struct {
	CropName string `json:"crop_name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type PricePrediction struct {
	CurrentPrice   decimal.Decimal `json:"current_price"`
	PredictedPrice decimal.Decimal `json:"predicted_price"`
	Change         float64         `json:"change"`
	Trend          string          `json:"trend"`
	Confidence     int             `json:"confidence"`
	Recommendation string          `json:"recommendation"`
	Factors        []string        `json:"factors"`
}

// --- Advisory ---

type WeatherAdviceResponse struct {
	Advice string `json:"advice"`
}

type CropRecommendationRequest struct {
	SoilType string `form:"soil_type" binding:"required"`
	Season   string `form:"season" binding:"required"`
}

type CropRecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

// --- Chat ---

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type ChatResponse struct {
	Message      string `json:"message"`
	ResponseTime int    `json:"response_time"`
	Model        string `json:"model"`
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
}

// --- Notifications ---

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID uuid.UUID `json:"related_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
