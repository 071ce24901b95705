package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"food-server/internal/domain"
	"food-server/internal/service"
)

type listRestaurantsQuery struct {
	Page     *int    `form:"page" binding:"required"`
	Size     *int    `form:"size" binding:"required"`
	Category *string `form:"category"`
	Keyword  *string `form:"keyword"`
}

type RestaurantResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
	ReviewCount   int64   `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
	CreatedAt     string  `json:"createdAt"`
}

type RestaurantListResponse struct {
	Items []RestaurantResponse `json:"items"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
	Total int64                `json:"total"`
}

type MenuItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

type ReviewResponse struct {
	ID       int64  `json:"id"`
	MenuID   int64  `json:"menuId"`
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
	PhotoURL string `json:"photoUrl,omitempty"`
	// CreatedAt is RFC3339.
	CreatedAt string `json:"createdAt"`
}

type RestaurantDetailResponse struct {
	RestaurantResponse
	Menu    []MenuItemResponse `json:"menu"`
	Reviews []ReviewResponse   `json:"reviews"`
}

func (h *Handler) listRestaurants(c *gin.Context) {
	var query listRestaurantsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and size are required integers"})
		return
	}

	result, err := h.restaurants.ListRestaurants(c.Request.Context(),
		domain.RestaurantFilter{Category: query.Category, Keyword: query.Keyword},
		domain.Page{Number: *query.Page, Size: *query.Size},
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := RestaurantListResponse{
		Items: make([]RestaurantResponse, len(result.Items)),
		Page:  result.Page,
		Size:  result.Size,
		Total: result.Total,
	}
	for i := range result.Items {
		resp.Items[i] = restaurantToResponse(result.Items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getRestaurant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	detail, err := h.restaurants.GetRestaurantDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detailToResponse(*detail))
}

func restaurantToResponse(r domain.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Address:       r.Address,
		Description:   r.Description,
		ReviewCount:   r.ReviewCount,
		AverageRating: r.AverageRating,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func detailToResponse(detail domain.RestaurantDetail) RestaurantDetailResponse {
	resp := RestaurantDetailResponse{
		RestaurantResponse: restaurantToResponse(detail.Restaurant),
		Menu:               make([]MenuItemResponse, len(detail.Menu)),
		Reviews:            make([]ReviewResponse, len(detail.Reviews)),
	}
	for i, item := range detail.Menu {
		resp.Menu[i] = MenuItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Description: item.Description,
		}
	}
	for i, review := range detail.Reviews {
		resp.Reviews[i] = ReviewResponse{
			ID:        review.ID,
			MenuID:    review.MenuID,
			UserID:    review.UserID,
			Nickname:  review.AuthorNickname,
			Rating:    review.Rating,
			Content:   review.Content,
			PhotoURL:  review.PhotoURL,
			CreatedAt: review.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
