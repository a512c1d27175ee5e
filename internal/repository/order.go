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

// ErrInsufficientStock is returned when the conditional stock decrement
// matches no row, i.e. another order consumed the stock first.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository interface {
	// Place inserts the order and decrements product stock in one
	// transaction. The decrement is conditional on remaining stock, which
	// closes the oversell race between concurrent orders.
	Place(ctx context.Context, order *model.Order) error

	// Cancel marks the order cancelled and restores product stock in one
	// transaction. Only pending or confirmed orders can be cancelled.
	Cancel(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context, search string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) Place(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	order.Status = model.OrderPending
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, buyer_id, farmer_id, product_id, quantity, unit, total_amount,
			status, delivery_address, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.BuyerID, order.FarmerID, order.ProductID, order.Quantity, order.Unit,
		order.TotalAmount, order.Status, order.DeliveryAddress, order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity - $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'available' AND quantity >= $2`,
		order.ProductID, order.Quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInsufficientStock
	}

	// Stock hitting zero flips the product to sold.
	if _, err := tx.Exec(ctx,
		`UPDATE products SET status = 'sold' WHERE id = $1 AND quantity <= 0`,
		order.ProductID,
	); err != nil {
		return fmt.Errorf("mark product sold: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgOrderRepo) Cancel(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order := &model.Order{}
	err = tx.QueryRow(ctx,
		`UPDATE orders SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND status IN ('pending', 'confirmed')
		 RETURNING id, buyer_id, farmer_id, product_id, quantity, unit, total_amount,
			status, delivery_address, notes, created_at, updated_at`,
		orderID,
	).Scan(
		&order.ID, &order.BuyerID, &order.FarmerID, &order.ProductID, &order.Quantity,
		&order.Unit, &order.TotalAmount, &order.Status, &order.DeliveryAddress, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity + $2, status = 'available', updated_at = NOW()
		 WHERE id = $1`,
		order.ProductID, order.Quantity,
	); err != nil {
		return nil, fmt.Errorf("restore stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT o.id, o.buyer_id, o.farmer_id, o.product_id, o.quantity, o.unit, o.total_amount,
			o.status, o.delivery_address, o.notes, o.created_at, o.updated_at, p.name
		 FROM orders o JOIN products p ON p.id = o.product_id
		 WHERE o.id = $1`, id,
	).Scan(
		&order.ID, &order.BuyerID, &order.FarmerID, &order.ProductID, &order.Quantity,
		&order.Unit, &order.TotalAmount, &order.Status, &order.DeliveryAddress, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt, &order.ProductName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *pgOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.buyer_id, o.farmer_id, o.product_id, o.quantity, o.unit, o.total_amount,
			o.status, o.delivery_address, o.notes, o.created_at, o.updated_at,
			p.name, u.full_name, u.phone
		 FROM orders o
		 JOIN products p ON o.product_id = p.id
		 JOIN users u ON o.farmer_id = u.id
		 WHERE o.buyer_id = $1
		 ORDER BY o.created_at DESC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list buyer orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.FarmerID, &o.ProductID, &o.Quantity, &o.Unit, &o.TotalAmount,
			&o.Status, &o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.ProductName, &o.FarmerName, &o.FarmerPhone,
		); err != nil {
			return nil, fmt.Errorf("scan buyer order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.buyer_id, o.farmer_id, o.product_id, o.quantity, o.unit, o.total_amount,
			o.status, o.delivery_address, o.notes, o.created_at, o.updated_at,
			p.name, u.full_name, u.phone
		 FROM orders o
		 JOIN products p ON o.product_id = p.id
		 JOIN users u ON o.buyer_id = u.id
		 WHERE o.farmer_id = $1
		 ORDER BY o.created_at DESC`, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list farmer orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.FarmerID, &o.ProductID, &o.Quantity, &o.Unit, &o.TotalAmount,
			&o.Status, &o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.ProductName, &o.BuyerName, &o.BuyerPhone,
		); err != nil {
			return nil, fmt.Errorf("scan farmer order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) ListAll(ctx context.Context, search string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.buyer_id, o.farmer_id, o.product_id, o.quantity, o.unit, o.total_amount,
			o.status, o.delivery_address, o.notes, o.created_at, o.updated_at,
			p.name, ub.full_name, ub.phone, uf.full_name, uf.phone
		 FROM orders o
		 JOIN products p ON o.product_id = p.id
		 JOIN users ub ON o.buyer_id = ub.id
		 JOIN users uf ON o.farmer_id = uf.id
		 WHERE ($1 = '' OR p.name ILIKE '%'||$1||'%' OR ub.full_name ILIKE '%'||$1||'%' OR uf.full_name ILIKE '%'||$1||'%')
		 ORDER BY o.created_at DESC`, search)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.FarmerID, &o.ProductID, &o.Quantity, &o.Unit, &o.TotalAmount,
			&o.Status, &o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.ProductName, &o.BuyerName, &o.BuyerPhone, &o.FarmerName, &o.FarmerPhone,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
