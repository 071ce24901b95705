package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"food-server/internal/domain"
	"food-server/internal/repository"
)

const (
	MaxPageSize       = 100
	detailReviewLimit = 20
)

var (
	// ErrInvalidPage is returned for a page below 1, a page whose offset overflows,
	// or a size outside 1..MaxPageSize.
	ErrInvalidPage = errors.New("invalid page request")
	// ErrRestaurantNotFound is returned when the restaurant id is unknown.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// RestaurantService answers restaurant listing and detail queries.
type RestaurantService interface {
	ListRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.Page) (*domain.RestaurantPage, error)
	GetRestaurantDetail(ctx context.Context, id int64) (*domain.RestaurantDetail, error)
}

type restaurantService struct {
	restaurants repository.RestaurantRepository
	menus       repository.MenuRepository
	reviews     repository.ReviewRepository
}

func NewRestaurantService(restaurants repository.RestaurantRepository, menus repository.MenuRepository, reviews repository.ReviewRepository) RestaurantService {
	return &restaurantService{
		restaurants: restaurants,
		menus:       menus,
		reviews:     reviews,
	}
}

func (s *restaurantService) ListRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.Page) (*domain.RestaurantPage, error) {
	if page.Number < 1 || page.Size < 1 || page.Size > MaxPageSize {
		return nil, ErrInvalidPage
	}
	// The row offset must fit in an int.
	if page.Number-1 > math.MaxInt/page.Size {
		return nil, ErrInvalidPage
	}
	filter = normalizeFilter(filter)

	items, err := s.restaurants.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	total, err := s.restaurants.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.RestaurantPage{
		Items: items,
		Page:  page.Number,
		Size:  page.Size,
		Total: total,
	}, nil
}

func (s *restaurantService) GetRestaurantDetail(ctx context.Context, id int64) (*domain.RestaurantDetail, error) {
	if id <= 0 {
		return nil, ErrRestaurantNotFound
	}

	restaurant, err := s.restaurants.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	menu, err := s.menus.ListByRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	reviews, err := s.reviews.ListByRestaurant(ctx, id, detailReviewLimit)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	return &domain.RestaurantDetail{
		Restaurant: *restaurant,
		Menu:       menu,
		Reviews:    reviews,
	}, nil
}

// normalizeFilter drops blank filters so "?category=" behaves like no category.
func normalizeFilter(filter domain.RestaurantFilter) domain.RestaurantFilter {
	return domain.RestaurantFilter{
		Category: trimmedOrNil(filter.Category),
		Keyword:  trimmedOrNil(filter.Keyword),
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
