package models

import "errors"

// ErrNotFound is returned by repositories when a row does not exist
// or is not visible to the requested restaurant.
var ErrNotFound = errors.New("record not found")

type Restaurant struct {
	ID     int64  `db:"id" yaml:"id"`
	Name   string `db:"name" yaml:"name"`
	Active bool   `db:"active" yaml:"active"`
}

type Product struct {
	ID           int64   `db:"id" yaml:"id"`
	RestaurantID int64   `db:"restaurant_id" yaml:"restaurant_id"`
	Name         string  `db:"name" yaml:"name"`
	Description  string  `db:"description" yaml:"description"`
	Price        float64 `db:"price" yaml:"price"`
	Category     string  `db:"category" yaml:"category"`
	Available    bool    `db:"available" yaml:"available"`
}

type Conversation struct {
	ID            int64  `db:"id" yaml:"id"`
	RestaurantID  int64  `db:"restaurant_id" yaml:"restaurant_id"`
	CustomerPhone string `db:"customer_phone" yaml:"customer_phone"`
}
