package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/farmconnect/farmconnect-api/internal/dto"
)

type AnalyticsRepository interface {
	// MonthlySeries returns per-month revenue, order count, and new user
	// count for the last months calendar months, oldest first. Revenue
	// excludes cancelled and pending orders.
	MonthlySeries(ctx context.Context, months int) (*dto.MonthlySeries, error)
	TopFarmers(ctx context.Context, limit int) ([]dto.TopFarmer, error)
	CategoryPerformance(ctx context.Context) ([]dto.CategoryPerformance, error)
	OrderStatusDistribution(ctx context.Context) ([]dto.OrderStatusCount, error)
}

type pgAnalyticsRepo struct{ pool *pgxpool.Pool }

func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &pgAnalyticsRepo{pool: pool}
}

func (r *pgAnalyticsRepo) MonthlySeries(ctx context.Context, months int) (*dto.MonthlySeries, error) {
	if months <= 0 {
		months = 12
	}

	rows, err := r.pool.Query(ctx, `
		WITH months AS (
			SELECT date_trunc('month', NOW()) - (n || ' months')::interval AS month
			FROM generate_series($1::int - 1, 0, -1) AS n
		)
		SELECT m.month,
			COALESCE((SELECT SUM(o.total_amount) FROM orders o
				WHERE date_trunc('month', o.created_at) = m.month
				AND o.status NOT IN ('cancelled', 'pending')), 0),
			(SELECT COUNT(*) FROM orders o WHERE date_trunc('month', o.created_at) = m.month),
			(SELECT COUNT(*) FROM users u WHERE date_trunc('month', u.created_at) = m.month)
		FROM months m
		ORDER BY m.month`, months)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	defer rows.Close()

	series := &dto.MonthlySeries{}
	for rows.Next() {
		var month time.Time
		var sales decimal.Decimal
		var orders, users int
		if err := rows.Scan(&month, &sales, &orders, &users); err != nil {
			return nil, fmt.Errorf("scan monthly row: %w", err)
		}
		series.Labels = append(series.Labels, month.Format("Jan 2006"))
		series.Sales = append(series.Sales, sales)
		series.Orders = append(series.Orders, orders)
		series.Users = append(series.Users, users)
	}
	return series, rows.Err()
}

func (r *pgAnalyticsRepo) TopFarmers(ctx context.Context, limit int) ([]dto.TopFarmer, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.full_name, u.location,
			COUNT(o.id),
			COALESCE(SUM(o.total_amount), 0)
		FROM users u
		LEFT JOIN orders o ON u.id = o.farmer_id AND o.status NOT IN ('cancelled', 'pending')
		WHERE u.role = 'farmer'
		GROUP BY u.id, u.full_name, u.location
		ORDER BY COALESCE(SUM(o.total_amount), 0) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top farmers: %w", err)
	}
	defer rows.Close()

	var farmers []dto.TopFarmer
	for rows.Next() {
		var f dto.TopFarmer
		if err := rows.Scan(&f.FullName, &f.Location, &f.OrderCount, &f.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan top farmer: %w", err)
		}
		farmers = append(farmers, f)
	}
	return farmers, rows.Err()
}

func (r *pgAnalyticsRepo) CategoryPerformance(ctx context.Context) ([]dto.CategoryPerformance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(id), COALESCE(SUM(price_per_unit * quantity), 0)
		FROM products
		GROUP BY category
		ORDER BY COALESCE(SUM(price_per_unit * quantity), 0) DESC`)
	if err != nil {
		return nil, fmt.Errorf("category performance: %w", err)
	}
	defer rows.Close()

	var cats []dto.CategoryPerformance
	for rows.Next() {
		var c dto.CategoryPerformance
		if err := rows.Scan(&c.Category, &c.ProductCount, &c.Revenue); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *pgAnalyticsRepo) OrderStatusDistribution(ctx context.Context) ([]dto.OrderStatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("order status distribution: %w", err)
	}
	defer rows.Close()

	var out []dto.OrderStatusCount
	for rows.Next() {
		var s dto.OrderStatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
