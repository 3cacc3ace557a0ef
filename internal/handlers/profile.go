package handlers

import (
	"net/http"

	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService *services.UserService
}

func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
	}
}

// Get returns the authenticated user
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update changes the authenticated user's profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var input models.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.OwnerID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
