package repository

import (
	"context"

	"food-server/internal/domain"
)

// RestaurantRepository exposes read access to restaurants plus the writes the
// seeding tool needs.
type RestaurantRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, restaurant *domain.Restaurant) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context, filter domain.RestaurantFilter, page domain.Page) ([]domain.Restaurant, error)
	Count(ctx context.Context, filter domain.RestaurantFilter) (int64, error)
}

// MenuRepository manages the menu items of a restaurant.
type MenuRepository interface {
	Init(ctx context.Context) error
	ReplaceForRestaurant(ctx context.Context, restaurantID int64, items []domain.MenuItem) error
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error)
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Init(ctx context.Context) error
	// Create inserts the review only when its menu belongs to its restaurant
	// and returns the number of inserted rows.
	Create(ctx context.Context, review *domain.Review) (int64, error)
	ListByRestaurant(ctx context.Context, restaurantID int64, limit int) ([]domain.Review, error)
}
