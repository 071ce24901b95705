package domain

import "time"

// Restaurant is a venue listed by the service. The HTTP layer only reads it.
type Restaurant struct {
	ID          int64
	Name        string
	Category    string
	Address     string
	Description string
	CreatedAt   time.Time

	// Aggregates filled by read queries.
	ReviewCount   int64
	AverageRating float64
}

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Price        int64
	Description  string
}

// RestaurantFilter narrows a restaurant listing. Nil fields are not applied.
type RestaurantFilter struct {
	Category *string
	Keyword  *string
}

// Page describes a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip for the page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// RestaurantPage is one page of a filtered listing.
type RestaurantPage struct {
	Items []Restaurant
	Page  int
	Size  int
	Total int64
}

// RestaurantDetail aggregates a restaurant with its menu and latest reviews.
type RestaurantDetail struct {
	Restaurant Restaurant
	Menu       []MenuItem
	Reviews    []Review
}
