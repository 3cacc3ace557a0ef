package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Authenticator resolves credentials to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthRequired resolves the principal from a bearer token, falling back to
// the session cookie, and rejects the request with 401 when neither works
func AuthRequired(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolvePrincipal(c, authenticator)
		if err != nil {
			if models.KindOf(err) != models.KindUnauthenticated {
				logger.WithError(err).Error("Failed to resolve principal")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

func resolvePrincipal(c *gin.Context, authenticator Authenticator) (*models.User, error) {
	ctx := c.Request.Context()

	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return nil, models.ErrUnauthenticated
		}
		return authenticator.Authenticate(ctx, strings.TrimSpace(token))
	}

	session := GetSession(c)
	if session == nil {
		return nil, models.ErrUnauthenticated
	}

	id, err := uuid.Parse(session.UserID)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}

	user, err := authenticator.GetUserByID(ctx, id)
	if models.KindOf(err) == models.KindNotFound {
		return nil, models.ErrUnauthenticated
	}
	return user, err
}

// CurrentUser returns the principal set by AuthRequired
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// OwnerID returns the principal's id, or uuid.Nil outside AuthRequired
func OwnerID(c *gin.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}
