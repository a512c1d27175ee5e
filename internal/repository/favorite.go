package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

type FavoriteRepository interface {
	Add(ctx context.Context, buyerID, productID uuid.UUID) error
	Exists(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
	Remove(ctx context.Context, buyerID, productID uuid.UUID) error
	// ListProducts returns the buyer's favorited products that are still
	// available, with farmer name and location joined in.
	ListProducts(ctx context.Context, buyerID uuid.UUID) ([]model.Product, error)
}

type pgFavoriteRepo struct{ pool *pgxpool.Pool }

func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &pgFavoriteRepo{pool: pool}
}

func (r *pgFavoriteRepo) Add(ctx context.Context, buyerID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO favorites (buyer_id, product_id, created_at) VALUES ($1, $2, NOW())`,
		buyerID, productID,
	)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepo) Exists(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE buyer_id = $1 AND product_id = $2)`,
		buyerID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

func (r *pgFavoriteRepo) Remove(ctx context.Context, buyerID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE buyer_id = $1 AND product_id = $2`,
		buyerID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepo) ListProducts(ctx context.Context, buyerID uuid.UUID) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`, u.full_name, u.location
		 FROM favorites f
		 JOIN products p ON f.product_id = p.id
		 JOIN users u ON p.farmer_id = u.id
		 WHERE f.buyer_id = $1 AND p.status = 'available'
		 ORDER BY f.created_at DESC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.PricePerUnit,
			&p.Unit, &p.Quantity, &p.Organic, &p.QualityGrade, &p.Status, &p.ImagePath,
			&p.CreatedAt, &p.UpdatedAt, &p.FarmerName, &p.FarmerLocation,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
