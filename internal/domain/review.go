package domain

import "time"

// Review is a user's rating of a menu item at a restaurant.
type Review struct {
	ID           int64
	RestaurantID int64
	MenuID       int64
	UserID       int64
	Rating       int
	Content      string
	PhotoURL     string
	CreatedAt    time.Time

	// AuthorNickname is populated on reads.
	AuthorNickname string
}
