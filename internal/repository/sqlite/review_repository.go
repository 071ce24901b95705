package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"food-server/internal/domain"
	"food-server/internal/repository"
)

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	restaurant_id INTEGER NOT NULL,
	menu_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	rating INTEGER NOT NULL,
	content TEXT NOT NULL,
	photo_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	FOREIGN KEY(restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE,
	FOREIGN KEY(menu_id) REFERENCES menus(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON reviews(restaurant_id);
`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	review.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (restaurant_id, menu_id, user_id, rating, content, photo_url, created_at)
SELECT ?, ?, ?, ?, ?, ?, ?
WHERE EXISTS (SELECT 1 FROM menus WHERE id=? AND restaurant_id=?)`,
		review.RestaurantID,
		review.MenuID,
		review.UserID,
		review.Rating,
		review.Content,
		review.PhotoURL,
		review.CreatedAt,
		review.MenuID,
		review.RestaurantID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("review rows affected: %w", err)
	}
	if aff == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return aff, fmt.Errorf("review last insert id: %w", err)
		}
		review.ID = id
	}
	return aff, nil
}

func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT v.id, v.restaurant_id, v.menu_id, v.user_id, v.rating, v.content, v.photo_url, v.created_at, u.nickname
FROM reviews v
JOIN users u ON u.id = v.user_id
WHERE v.restaurant_id=?
ORDER BY v.id DESC
LIMIT ?`, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.RestaurantID,
			&review.MenuID,
			&review.UserID,
			&review.Rating,
			&review.Content,
			&review.PhotoURL,
			&review.CreatedAt,
			&review.AuthorNickname,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
