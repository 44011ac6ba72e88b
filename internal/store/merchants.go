package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Merchant is a tenant. All customer/product/order rows hang off one.
type Merchant struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      pgtype.Text `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
}

// UpsertMerchantByEmail creates the merchant on first sign-in and returns the
// existing row afterwards.
func (s *Store) UpsertMerchantByEmail(ctx context.Context, email string) (Merchant, error) {
	var m Merchant
	err := s.pool.QueryRow(ctx, `
		INSERT INTO merchants (id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, name, created_at`,
		uuid.New(), email,
	).Scan(&m.ID, &m.Email, &m.Name, &m.CreatedAt)
	if err != nil {
		return Merchant{}, fmt.Errorf("upsert merchant: %w", err)
	}
	return m, nil
}

// GetMerchantByEmail looks a merchant up for the auth callback.
func (s *Store) GetMerchantByEmail(ctx context.Context, email string) (Merchant, error) {
	var m Merchant
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, created_at FROM merchants WHERE email = $1`,
		email,
	).Scan(&m.ID, &m.Email, &m.Name, &m.CreatedAt)
	if err != nil {
		return Merchant{}, notFound(err)
	}
	return m, nil
}
