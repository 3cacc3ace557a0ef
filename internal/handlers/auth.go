package handlers

import (
	"net/http"

	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register creates an account and starts a session
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.userService.Register(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, result.User)
	c.JSON(http.StatusCreated, result)
}

// Login authenticates by email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), &input)
	if err != nil {
		if models.KindOf(err) == models.KindUnauthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}

	h.startSession(c, result.User)
	c.JSON(http.StatusOK, result)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) {
	if err := middleware.SetSession(c, user); err != nil {
		logger.WithError(err).Warn("Failed to set session cookie")
	}
}
