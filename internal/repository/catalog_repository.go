package repository

import (
	"context"

	"restaurant-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CatalogRepository reads restaurants, products and conversations. Their
// full CRUD lives in other services; the create methods exist for seeding.
type CatalogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCatalogRepository(db *pgxpool.Pool, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CatalogRepository) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	sql, args, err := squirrel.Select("id", "name", "active").
		From("restaurants").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rest models.Restaurant
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rest.ID, &rest.Name, &rest.Active); err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	sql, args, err := productSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *CatalogRepository) ListAvailableProducts(ctx context.Context, restaurantID int64) ([]*models.Product, error) {
	sql, args, err := productSelect().
		Where(squirrel.Eq{"restaurant_id": restaurantID, "available": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	sql, args, err := squirrel.Select("id", "restaurant_id", "customer_phone").
		From("conversations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Conversation
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.RestaurantID, &c.CustomerPhone); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CatalogRepository) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	sql, args, err := squirrel.Insert("restaurants").
		Columns("name", "active").
		Values(rest.Name, rest.Active).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, sql, args...).Scan(&rest.ID)
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	sql, args, err := squirrel.Insert("products").
		Columns("restaurant_id", "name", "description", "price", "category", "available").
		Values(p.RestaurantID, p.Name, p.Description, p.Price, p.Category, p.Available).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, sql, args...).Scan(&p.ID)
}

func (r *CatalogRepository) CreateConversation(ctx context.Context, c *models.Conversation) error {
	sql, args, err := squirrel.Insert("conversations").
		Columns("restaurant_id", "customer_phone").
		Values(c.RestaurantID, c.CustomerPhone).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, sql, args...).Scan(&c.ID)
}

func productSelect() squirrel.SelectBuilder {
	return squirrel.Select("id", "restaurant_id", "name", "description", "price::DOUBLE PRECISION", "category", "available").
		From("products").
		PlaceholderFormat(squirrel.Dollar)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.RestaurantID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Available); err != nil {
		return nil, err
	}
	return &p, nil
}
