package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a restaurant staff account allowed to use the API of its restaurant.
type Operator struct {
	ID           uuid.UUID `db:"id"`
	RestaurantID int64     `db:"restaurant_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
