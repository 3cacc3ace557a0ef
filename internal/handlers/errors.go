package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// respondError writes err with the status its kind maps to. Internal errors
// are logged and their detail is not sent to the client.
func respondError(c *gin.Context, err error) {
	switch models.KindOf(err) {
	case models.KindValidation:
		var validationErr *models.ValidationError
		errors.As(err, &validationErr)
		c.JSON(http.StatusBadRequest, validationErr)
	case models.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case models.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
	case models.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"user_id": middleware.OwnerID(c),
		}).WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// bindJSON decodes the request body into dst, answering 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, models.NewFieldError("body", "Invalid request body"))
		return false
	}
	return true
}

// pathID parses the :id parameter. A malformed id cannot name anything the
// caller owns, so it is reported as not found.
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &models.NotFoundError{Resource: resource})
		return uuid.Nil, false
	}
	return id, true
}
