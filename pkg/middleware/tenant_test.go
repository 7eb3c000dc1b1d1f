package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"restaurant-rag/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRestaurants struct {
	restaurants map[int64]*models.Restaurant
	err         error
	lookups     []int64
}

func (s *stubRestaurants) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	s.lookups = append(s.lookups, id)
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.restaurants[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r, nil
}

func newTenantApp(tokenRestaurant int64, lookup RestaurantLookup) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(LocalRestaurantID, tokenRestaurant)
		return c.Next()
	})
	app.Get("/restaurants/:restaurantId", TenantGuard(lookup, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestTenantGuard_Statuses(t *testing.T) {
	restaurants := map[int64]*models.Restaurant{
		1: {ID: 1, Name: "Abierto", Active: true},
		2: {ID: 2, Name: "Cerrado", Active: false},
	}

	tests := []struct {
		name        string
		token       int64
		path        string
		lookupErr   error
		wantStatus  int
		wantLookups []int64
	}{
		{name: "own active restaurant", token: 1, path: "/restaurants/1", wantStatus: fiber.StatusOK, wantLookups: []int64{1}},
		{name: "other tenant", token: 1, path: "/restaurants/2", wantStatus: fiber.StatusForbidden},
		{name: "bad id", token: 1, path: "/restaurants/abc", wantStatus: fiber.StatusBadRequest},
		{name: "inactive restaurant", token: 2, path: "/restaurants/2", wantStatus: fiber.StatusNotFound, wantLookups: []int64{2}},
		{name: "missing restaurant", token: 3, path: "/restaurants/3", wantStatus: fiber.StatusNotFound, wantLookups: []int64{3}},
		{name: "lookup failure", token: 1, path: "/restaurants/1", lookupErr: errors.New("db down"),
			wantStatus: fiber.StatusInternalServerError, wantLookups: []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &stubRestaurants{restaurants: restaurants, err: tt.lookupErr}
			resp, err := newTenantApp(tt.token, lookup).Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLookups, lookup.lookups)
		})
	}
}
