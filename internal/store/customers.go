package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Customer struct {
	ID         uuid.UUID   `json:"id"`
	MerchantID uuid.UUID   `json:"merchant_id"`
	Name       string      `json:"name"`
	Email      pgtype.Text `json:"email"`
	CreatedAt  time.Time   `json:"created_at"`
}

type CreateCustomerParams struct {
	MerchantID uuid.UUID
	Name       string
	Email      string
}

func (s *Store) CreateCustomer(ctx context.Context, p CreateCustomerParams) (Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (id, merchant_id, name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, merchant_id, name, email, created_at`,
		uuid.New(), p.MerchantID, p.Name, pgtype.Text{String: p.Email, Valid: p.Email != ""},
	).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, merchantID, id uuid.UUID) (Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, email, created_at
		FROM customers WHERE id = $1 AND merchant_id = $2`,
		id, merchantID,
	).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		return Customer{}, notFound(err)
	}
	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context, merchantID uuid.UUID) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, merchant_id, name, email, created_at
		FROM customers WHERE merchant_id = $1 ORDER BY created_at DESC`,
		merchantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Customer])
}

type UpdateCustomerParams struct {
	MerchantID uuid.UUID
	ID         uuid.UUID
	Name       string
	Email      string
}

func (s *Store) UpdateCustomer(ctx context.Context, p UpdateCustomerParams) (Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		UPDATE customers SET name = $3, email = $4
		WHERE id = $1 AND merchant_id = $2
		RETURNING id, merchant_id, name, email, created_at`,
		p.ID, p.MerchantID, p.Name, pgtype.Text{String: p.Email, Valid: p.Email != ""},
	).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		return Customer{}, notFound(err)
	}
	return c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, merchantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM customers WHERE id = $1 AND merchant_id = $2`,
		id, merchantID,
	)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
