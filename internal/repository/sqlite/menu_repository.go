package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"food-server/internal/domain"
	"food-server/internal/repository"
)

const createMenusTable = `
CREATE TABLE IF NOT EXISTS menus (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	restaurant_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	price INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	UNIQUE(restaurant_id, name),
	FOREIGN KEY(restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_menus_restaurant_id ON menus(restaurant_id);
`

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) repository.MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMenusTable); err != nil {
		return fmt.Errorf("create menus table: %w", err)
	}
	return nil
}

// ReplaceForRestaurant makes the restaurant's menu equal to items. Items are
// matched by name so existing ids, and the reviews pointing at them, survive.
// The assigned ids are written back into items.
func (r *MenuRepository) ReplaceForRestaurant(ctx context.Context, restaurantID int64, items []domain.MenuItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	names := make([]any, 0, len(items)+1)
	names = append(names, restaurantID)
	placeholders := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
		placeholders = append(placeholders, "?")
	}

	deleteQuery := `DELETE FROM menus WHERE restaurant_id=?`
	if len(placeholders) > 0 {
		deleteQuery += fmt.Sprintf(` AND name NOT IN (%s)`, strings.Join(placeholders, ","))
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, names...); err != nil {
		return fmt.Errorf("delete stale menu items: %w", err)
	}

	for i := range items {
		var id int64
		if err := tx.QueryRowContext(ctx, `
INSERT INTO menus (restaurant_id, name, price, description)
VALUES (?, ?, ?, ?)
ON CONFLICT(restaurant_id, name) DO UPDATE SET price=excluded.price, description=excluded.description
RETURNING id`,
			restaurantID,
			items[i].Name,
			items[i].Price,
			items[i].Description,
		).Scan(&id); err != nil {
			return fmt.Errorf("upsert menu item %q: %w", items[i].Name, err)
		}
		items[i].ID = id
		items[i].RestaurantID = restaurantID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, restaurant_id, name, price, description
FROM menus
WHERE restaurant_id=?
ORDER BY id ASC`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.Description); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
