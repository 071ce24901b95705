package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-server/internal/domain"
	"food-server/internal/repository"
)

const createRestaurantsTable = `
CREATE TABLE IF NOT EXISTS restaurants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE(name, address)
);
CREATE INDEX IF NOT EXISTS idx_restaurants_category ON restaurants(category);
`

const selectRestaurant = `
SELECT r.id, r.name, r.category, r.address, r.description, r.created_at,
	COUNT(v.id), COALESCE(AVG(v.rating), 0.0)
FROM restaurants r
LEFT JOIN reviews v ON v.restaurant_id = r.id`

type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) repository.RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRestaurantsTable); err != nil {
		return fmt.Errorf("create restaurants table: %w", err)
	}
	return nil
}

// Create inserts the restaurant, or refreshes the existing row with the same
// name and address, and stores the resulting id on the struct.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) (int64, error) {
	if restaurant.CreatedAt.IsZero() {
		restaurant.CreatedAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO restaurants (name, category, address, description, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name, address) DO UPDATE SET category=excluded.category, description=excluded.description
RETURNING id`,
		restaurant.Name,
		restaurant.Category,
		restaurant.Address,
		restaurant.Description,
		restaurant.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert restaurant: %w", err)
	}
	restaurant.ID = id
	return id, nil
}

func (r *RestaurantRepository) Get(ctx context.Context, id int64) (*domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, selectRestaurant+`
WHERE r.id = ?
GROUP BY r.id`, id)
	return scanRestaurant(row)
}

func (r *RestaurantRepository) List(ctx context.Context, filter domain.RestaurantFilter, page domain.Page) ([]domain.Restaurant, error) {
	where, args := filterClause(filter)
	query := selectRestaurant + where + `
GROUP BY r.id
ORDER BY r.id ASC
LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *restaurant)
	}
	return restaurants, rows.Err()
}

func (r *RestaurantRepository) Count(ctx context.Context, filter domain.RestaurantFilter) (int64, error) {
	where, args := filterClause(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants r`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return total, nil
}

func filterClause(filter domain.RestaurantFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != nil {
		conds = append(conds, "r.category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Keyword != nil {
		pattern := "%" + escapeLike(*filter.Keyword) + "%"
		conds = append(conds, `(r.name LIKE ? ESCAPE '\' OR r.address LIKE ? ESCAPE '\' OR r.description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanRestaurant(scanner interface {
	Scan(dest ...any) error
}) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := scanner.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Category,
		&restaurant.Address,
		&restaurant.Description,
		&restaurant.CreatedAt,
		&restaurant.ReviewCount,
		&restaurant.AverageRating,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("restaurant %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan restaurant: %w", err)
	}
	return &restaurant, nil
}
