package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

var ErrInvalidStatus = errors.New("invalid status")

// AdminService carries the moderation operations: listing across all users,
// products and orders, and the single-field status mutations.
type AdminService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	statsRepo   repository.StatsRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	statsRepo repository.StatsRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		statsRepo:   statsRepo,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	return s.statsRepo.AdminStats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, search string) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out, nil
}

func (s *AdminService) ListProducts(ctx context.Context, search string) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.ListAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out, nil
}

func (s *AdminService) ListOrders(ctx context.Context, search string) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toOrderList(orders), nil
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if err := s.userRepo.UpdateVerificationStatus(ctx, userID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user status: %w", err)
	}
	return nil
}

// DeleteUser removes a non-admin user. Admin accounts are never deleted;
// attempting to returns ErrUserNotFound since the guarded DELETE matches
// no row.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateProductStatus(ctx context.Context, productID uuid.UUID, status string) error {
	if !model.ValidProductStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.productRepo.UpdateStatus(ctx, productID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
