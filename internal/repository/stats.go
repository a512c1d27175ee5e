package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/farmconnect/farmconnect-api/internal/dto"
)

// StatsRepository backs the per-role dashboard counters. Each method is a
// handful of aggregate queries matching one dashboard.
type StatsRepository interface {
	AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error)
	FarmerStats(ctx context.Context, farmerID uuid.UUID) (*dto.FarmerStatsResponse, error)
	BuyerStats(ctx context.Context, buyerID uuid.UUID) (*dto.BuyerStatsResponse, error)
}

type pgStatsRepo struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &pgStatsRepo{pool: pool}
}

func (r *pgStatsRepo) AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	stats := &dto.AdminStatsResponse{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'farmer'),
			(SELECT COUNT(*) FROM users WHERE role = 'buyer'),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled'),
			(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM orders WHERE created_at >= NOW() - INTERVAL '30 days')`,
	).Scan(
		&stats.TotalUsers, &stats.TotalFarmers, &stats.TotalBuyers, &stats.TotalProducts,
		&stats.TotalOrders, &stats.TotalRevenue, &stats.NewUsers30d, &stats.NewOrders30d,
	)
	if err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return stats, nil
}

func (r *pgStatsRepo) FarmerStats(ctx context.Context, farmerID uuid.UUID) (*dto.FarmerStatsResponse, error) {
	stats := &dto.FarmerStatsResponse{TotalEarnings: decimal.Zero}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products WHERE farmer_id = $1),
			(SELECT COUNT(*) FROM products WHERE farmer_id = $1 AND status = 'available'),
			(SELECT COUNT(*) FROM orders WHERE farmer_id = $1),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE farmer_id = $1 AND status != 'cancelled')`,
		farmerID,
	).Scan(&stats.TotalProducts, &stats.ActiveProducts, &stats.TotalOrders, &stats.TotalEarnings)
	if err != nil {
		return nil, fmt.Errorf("farmer stats: %w", err)
	}
	return stats, nil
}

func (r *pgStatsRepo) BuyerStats(ctx context.Context, buyerID uuid.UUID) (*dto.BuyerStatsResponse, error) {
	stats := &dto.BuyerStatsResponse{TotalSpent: decimal.Zero}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE buyer_id = $1),
			(SELECT COUNT(*) FROM orders WHERE buyer_id = $1 AND status = 'pending'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE buyer_id = $1 AND status != 'cancelled'),
			(SELECT COUNT(*) FROM products WHERE status = 'available')`,
		buyerID,
	).Scan(&stats.TotalOrders, &stats.PendingOrders, &stats.TotalSpent, &stats.AvailableProducts)
	if err != nil {
		return nil, fmt.Errorf("buyer stats: %w", err)
	}
	return stats, nil
}
