package sqlitestore

import (
	"context"

	"restaurant-rag/internal/models"

	"github.com/google/uuid"
)

type operatorRow struct {
	ID           uuid.UUID `db:"id"`
	RestaurantID int64     `db:"restaurant_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    int64     `db:"created_at"`
	UpdatedAt    int64     `db:"updated_at"`
}

func (r operatorRow) operator() *models.Operator {
	return &models.Operator{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    fromNanos(r.CreatedAt),
		UpdatedAt:    fromNanos(r.UpdatedAt),
	}
}

func (s *Store) CreateOperator(ctx context.Context, op *models.Operator) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO operators (id, restaurant_id, email, password_hash, created_at, updated_at)
		 VALUES (:id, :restaurant_id, :email, :password_hash, :created_at, :updated_at)`,
		operatorRow{
			ID:           op.ID,
			RestaurantID: op.RestaurantID,
			Email:        op.Email,
			PasswordHash: op.PasswordHash,
			CreatedAt:    op.CreatedAt.UnixNano(),
			UpdatedAt:    op.UpdatedAt.UnixNano(),
		})
	return err
}

func (s *Store) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var row operatorRow
	if err := s.read.GetContext(ctx, &row, "SELECT * FROM operators WHERE email = ?", email); err != nil {
		return nil, notFound(err)
	}
	return row.operator(), nil
}

func (s *Store) GetOperatorByID(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	var row operatorRow
	if err := s.read.GetContext(ctx, &row, "SELECT * FROM operators WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return row.operator(), nil
}
