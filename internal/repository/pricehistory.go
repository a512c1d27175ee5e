package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

type PriceHistoryRepository interface {
	// RecentPrices returns up to limit price records for a crop and market,
	// newest first.
	RecentPrices(ctx context.Context, cropName, location string, limit int) ([]model.PricePoint, error)
}

type pgPriceHistoryRepo struct{ pool *pgxpool.Pool }

func NewPriceHistoryRepository(pool *pgxpool.Pool) PriceHistoryRepository {
	return &pgPriceHistoryRepo{pool: pool}
}

func (r *pgPriceHistoryRepo) RecentPrices(ctx context.Context, cropName, location string, limit int) ([]model.PricePoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT price, date_recorded FROM price_history
		 WHERE crop_name = $1 AND market_location = $2
		 ORDER BY date_recorded DESC LIMIT $3`,
		cropName, location, limit)
	if err != nil {
		return nil, fmt.Errorf("recent prices: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Price, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
