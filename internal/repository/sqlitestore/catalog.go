package sqlitestore

import (
	"context"

	"restaurant-rag/internal/models"

	"github.com/Masterminds/squirrel"
)

var productColumns = []string{"id", "restaurant_id", "name", "description", "price", "category", "available"}

func (s *Store) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.read.GetContext(ctx, &r, "SELECT id, name, active FROM restaurants WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	q, args, err := squirrel.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.read.GetContext(ctx, &p, q, args...); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) ListAvailableProducts(ctx context.Context, restaurantID int64) ([]*models.Product, error) {
	q, args, err := squirrel.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"restaurant_id": restaurantID, "available": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var products []*models.Product
	if err := s.read.SelectContext(ctx, &products, q, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.read.GetContext(ctx, &c, "SELECT id, restaurant_id, customer_phone FROM conversations WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	res, err := s.db.NamedExecContext(ctx, "INSERT INTO restaurants (name, active) VALUES (:name, :active)", r)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO products (restaurant_id, name, description, price, category, available)
		 VALUES (:restaurant_id, :name, :description, :price, :category, :available)`, p)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) CreateConversation(ctx context.Context, c *models.Conversation) error {
	res, err := s.db.NamedExecContext(ctx,
		"INSERT INTO conversations (restaurant_id, customer_phone) VALUES (:restaurant_id, :customer_phone)", c)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}
