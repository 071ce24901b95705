package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-server/internal/service"
)

type createReviewRequest struct {
	RestaurantID int64  `json:"restaurantId"`
	MenuID       int64  `json:"menuId"`
	Rating       int    `json:"rating"`
	Content      string `json:"content"`
}

type reviewPhotoForm struct {
	Rating  int    `form:"rating" binding:"required"`
	Content string `form:"content" binding:"required"`
}

func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectWithoutBody(c, "create review", err)
		return
	}

	rows, err := h.reviews.CreateReview(c.Request.Context(), c.GetHeader("Authorization"), service.ReviewRequest{
		RestaurantID: req.RestaurantID,
		MenuID:       req.MenuID,
		Rating:       req.Rating,
		Content:      req.Content,
	})
	if err != nil {
		h.rejectWithoutBody(c, "create review", err)
		return
	}
	if rows != 1 {
		h.rejectWithoutBody(c, "create review", fmt.Errorf("%w: %d rows inserted", service.ErrReviewNotPersisted, rows))
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) createReviewPhoto(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("restaurantId"), 10, 64)
	if err != nil {
		h.rejectWithoutBody(c, "create review photo", fmt.Errorf("restaurant id: %w", err))
		return
	}
	menuID, err := strconv.ParseInt(c.Param("menuId"), 10, 64)
	if err != nil {
		h.rejectWithoutBody(c, "create review photo", fmt.Errorf("menu id: %w", err))
		return
	}

	var form reviewPhotoForm
	if err := c.ShouldBind(&form); err != nil {
		h.rejectWithoutBody(c, "create review photo", err)
		return
	}

	var photo *service.Photo
	header, err := c.FormFile("image")
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			h.rejectWithoutBody(c, "create review photo", fmt.Errorf("open image: %w", err))
			return
		}
		defer file.Close()
		photo = &service.Photo{
			Filename: header.Filename,
			Size:     header.Size,
			Body:     file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// image is optional
	default:
		h.rejectWithoutBody(c, "create review photo", fmt.Errorf("read image: %w", err))
		return
	}

	err = h.reviews.CreateReviewPhoto(c.Request.Context(), c.GetHeader("Authorization"), service.ReviewRequest{
		RestaurantID: restaurantID,
		MenuID:       menuID,
		Rating:       form.Rating,
		Content:      form.Content,
	}, photo)
	if err != nil {
		h.rejectWithoutBody(c, "create review photo", err)
		return
	}

	c.Status(http.StatusCreated)
}
