package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-server/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	restaurants service.RestaurantService
	reviews     service.ReviewService
	users       service.UserService
	logger      *logrus.Logger
}

func NewHandler(restaurants service.RestaurantService, reviews service.ReviewService, users service.UserService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		restaurants: restaurants,
		reviews:     reviews,
		users:       users,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api/v1")
	{
		api.GET("/restaurants", h.listRestaurants)
		api.GET("/restaurants/:id", h.getRestaurant)
		api.POST("/reviews", h.createReview)
		api.POST("/reviews/restaurant/:restaurantId/menu/:menuId", h.createReviewPhoto)
		api.POST("/users/signup", h.signUp)
		api.POST("/users/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request")
	}
}

// rejectWithoutBody logs the discarded cause and answers 400 with an empty body.
func (h *Handler) rejectWithoutBody(c *gin.Context, op string, err error) {
	h.logger.WithFields(logrus.Fields{
		"op":    op,
		"error": err,
	}).Warn("request rejected")
	c.AbortWithStatus(http.StatusBadRequest)
}
