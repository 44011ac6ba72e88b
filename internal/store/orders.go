package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmaher/shoplite/internal/report"
)

type Order struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	PlacedAt   time.Time `json:"placed_at"`
}

type OrderItem struct {
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

type CreateOrderParams struct {
	MerchantID uuid.UUID
	CustomerID uuid.UUID
	Items      []OrderItem
}

// CreateOrder inserts the order and its items in one transaction. The
// customer must belong to the merchant.
func (s *Store) CreateOrder(ctx context.Context, p CreateOrderParams) (Order, error) {
	if _, err := s.GetCustomer(ctx, p.MerchantID, p.CustomerID); err != nil {
		return Order{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var o Order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, merchant_id, customer_id)
		VALUES ($1, $2, $3)
		RETURNING id, merchant_id, customer_id, placed_at`,
		uuid.New(), p.MerchantID, p.CustomerID,
	).Scan(&o.ID, &o.MerchantID, &o.CustomerID, &o.PlacedAt)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	for _, it := range p.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			o.ID, it.ProductID, it.Quantity, it.UnitPrice,
		); err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, merchantID uuid.UUID) ([]Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, merchant_id, customer_id, placed_at
		FROM orders WHERE merchant_id = $1 ORDER BY placed_at DESC`,
		merchantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Order])
}

func (s *Store) ListOrderItems(ctx context.Context, merchantID, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.id = $1 AND o.merchant_id = $2`,
		orderID, merchantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[OrderItem])
}

// ListLineItems returns every order line for the merchant in the shape the
// report engine consumes.
func (s *Store) ListLineItems(ctx context.Context, merchantID uuid.UUID) ([]report.LineItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT oi.product_id, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.merchant_id = $1`,
		merchantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var items []report.LineItem
	for rows.Next() {
		var productID uuid.UUID
		var it report.LineItem
		if err := rows.Scan(&productID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		it.ProductID = productID.String()
		items = append(items, it)
	}
	return items, rows.Err()
}
