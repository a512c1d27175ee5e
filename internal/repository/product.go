package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

type MarketplaceFilter struct {
	Search   string
	Category string
	Location string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error)
	ListMarketplace(ctx context.Context, f MarketplaceFilter) ([]model.Product, int, error)
	ListAll(ctx context.Context, search string) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateImagePath(ctx context.Context, id uuid.UUID, imagePath string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `p.id, p.farmer_id, p.name, p.description, p.category, p.price_per_unit,
	p.unit, p.quantity, p.organic, p.quality_grade, p.status, p.image_path, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.PricePerUnit,
		&p.Unit, &p.Quantity, &p.Organic, &p.QualityGrade, &p.Status, &p.ImagePath,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	query := `INSERT INTO products (id, farmer_id, name, description, category, price_per_unit,
				unit, quantity, organic, quality_grade, status, image_path, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.FarmerID, product.Name, product.Description, product.Category,
		product.PricePerUnit, product.Unit, product.Quantity, product.Organic,
		product.QualityGrade, product.Status, product.ImagePath,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
}

func (r *pgProductRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.farmer_id = $1 ORDER BY p.created_at DESC`,
		farmerID)
	if err != nil {
		return nil, fmt.Errorf("list farmer products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) ListMarketplace(ctx context.Context, f MarketplaceFilter) ([]model.Product, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 12
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := `p.status = 'available'
		AND ($1 = '' OR p.name ILIKE '%'||$1||'%' OR p.description ILIKE '%'||$1||'%' OR p.category ILIKE '%'||$1||'%')
		AND ($2 = '' OR $2 = 'all' OR p.category = $2)
		AND ($3 = '' OR u.location ILIKE '%'||$3||'%')`

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products p JOIN users u ON p.farmer_id = u.id WHERE `+where,
		f.Search, f.Category, f.Location,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count marketplace products: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`, u.full_name, u.phone, u.location
		 FROM products p JOIN users u ON p.farmer_id = u.id
		 WHERE `+where+`
		 ORDER BY p.created_at DESC
		 LIMIT $4 OFFSET $5`,
		f.Search, f.Category, f.Location, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list marketplace products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.PricePerUnit,
			&p.Unit, &p.Quantity, &p.Organic, &p.QualityGrade, &p.Status, &p.ImagePath,
			&p.CreatedAt, &p.UpdatedAt, &p.FarmerName, &p.FarmerPhone, &p.FarmerLocation,
		); err != nil {
			return nil, 0, fmt.Errorf("scan marketplace product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *pgProductRepo) ListAll(ctx context.Context, search string) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`, u.full_name, u.phone, u.location
		 FROM products p JOIN users u ON p.farmer_id = u.id
		 WHERE ($1 = '' OR p.name ILIKE '%'||$1||'%' OR p.category ILIKE '%'||$1||'%' OR u.full_name ILIKE '%'||$1||'%')
		 ORDER BY p.created_at DESC`, search)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.PricePerUnit,
			&p.Unit, &p.Quantity, &p.Organic, &p.QualityGrade, &p.Status, &p.ImagePath,
			&p.CreatedAt, &p.UpdatedAt, &p.FarmerName, &p.FarmerPhone, &p.FarmerLocation,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET name=$2, description=$3, category=$4, price_per_unit=$5,
				unit=$6, quantity=$7, organic=$8, quality_grade=$9, status=$10, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Category, product.PricePerUnit,
		product.Unit, product.Quantity, product.Organic, product.QualityGrade, product.Status,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) UpdateImagePath(ctx context.Context, id uuid.UUID, imagePath string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE products SET image_path = $2, updated_at = NOW() WHERE id = $1`, id, imagePath,
	)
	if err != nil {
		return fmt.Errorf("update image path: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
