package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-server/internal/service"
)

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectWithoutBody(c, "sign up", err)
		return
	}

	if _, err := h.users.SignUp(c.Request.Context(), req.Email, req.Password, req.Nickname); err != nil {
		h.rejectWithoutBody(c, "sign up", err)
		return
	}

	c.Status(http.StatusCreated)
}

// login reports failure in-band: the status is 200 either way.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, LoginResponse{})
		return
	}

	result := h.users.Login(c.Request.Context(), req.Email, req.Password)
	token, ok := result.Token()
	if !ok {
		if result.Failure() == service.LoginUnavailable {
			h.logger.WithFields(logrus.Fields{
				"op":    "login",
				"error": result.Err(),
			}).Error("login unavailable")
		}
		c.JSON(http.StatusOK, LoginResponse{})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Success: true})
}
