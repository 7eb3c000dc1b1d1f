package repository

import (
	"context"

	"restaurant-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var operatorColumns = []string{"id", "restaurant_id", "email", "password_hash", "created_at", "updated_at"}

type OperatorRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewOperatorRepository(db *pgxpool.Pool, logger *zap.Logger) *OperatorRepository {
	return &OperatorRepository{
		db:     db,
		logger: logger,
	}
}

func (r *OperatorRepository) CreateOperator(ctx context.Context, op *models.Operator) error {
	sql, args, err := squirrel.Insert("operators").
		Columns(operatorColumns...).
		Values(op.ID, op.RestaurantID, op.Email, op.PasswordHash, op.CreatedAt, op.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *OperatorRepository) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *OperatorRepository) GetOperatorByID(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *OperatorRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Operator, error) {
	sql, args, err := squirrel.Select(operatorColumns...).
		From("operators").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var op models.Operator
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&op.ID, &op.RestaurantID, &op.Email, &op.PasswordHash, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &op, nil
}
