package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Product struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Cost       float64   `json:"cost"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateProductParams struct {
	MerchantID uuid.UUID
	Name       string
	Category   string
	Price      float64
	Cost       float64
}

func (s *Store) CreateProduct(ctx context.Context, p CreateProductParams) (Product, error) {
	var prod Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (id, merchant_id, name, category, price, cost)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, merchant_id, name, category, price, cost, created_at`,
		uuid.New(), p.MerchantID, p.Name, p.Category, p.Price, p.Cost,
	).Scan(&prod.ID, &prod.MerchantID, &prod.Name, &prod.Category, &prod.Price, &prod.Cost, &prod.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return prod, nil
}

func (s *Store) GetProduct(ctx context.Context, merchantID, id uuid.UUID) (Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, category, price, cost, created_at
		FROM products WHERE id = $1 AND merchant_id = $2`,
		id, merchantID,
	).Scan(&p.ID, &p.MerchantID, &p.Name, &p.Category, &p.Price, &p.Cost, &p.CreatedAt)
	if err != nil {
		return Product{}, notFound(err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, merchantID uuid.UUID) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, merchant_id, name, category, price, cost, created_at
		FROM products WHERE merchant_id = $1 ORDER BY created_at`,
		merchantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
}

type UpdateProductParams struct {
	MerchantID uuid.UUID
	ID         uuid.UUID
	Name       string
	Category   string
	Price      float64
	Cost       float64
}

func (s *Store) UpdateProduct(ctx context.Context, p UpdateProductParams) (Product, error) {
	var prod Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products SET name = $3, category = $4, price = $5, cost = $6
		WHERE id = $1 AND merchant_id = $2
		RETURNING id, merchant_id, name, category, price, cost, created_at`,
		p.ID, p.MerchantID, p.Name, p.Category, p.Price, p.Cost,
	).Scan(&prod.ID, &prod.MerchantID, &prod.Name, &prod.Category, &prod.Price, &prod.Cost, &prod.CreatedAt)
	if err != nil {
		return Product{}, notFound(err)
	}
	return prod, nil
}

func (s *Store) DeleteProduct(ctx context.Context, merchantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM products WHERE id = $1 AND merchant_id = $2`,
		id, merchantID,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkInsertProducts inserts imported rows in one transaction. Used by the
// CSV import worker; all-or-nothing so a half-imported file never shows up.
func (s *Store) BulkInsertProducts(ctx context.Context, params []CreateProductParams) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	inserted := 0
	for _, p := range params {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (id, merchant_id, name, category, price, cost)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), p.MerchantID, p.Name, p.Category, p.Price, p.Cost,
		); err != nil {
			return 0, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		inserted++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
