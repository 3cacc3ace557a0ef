package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/config"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "session"
	sessionTTL    = 24 * time.Hour
)

type SessionData struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionMiddleware reads the signed session cookie into the context and
// slides its expiry forward on every request that carries a valid one
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData := getSessionFromCookie(c)
		if sessionData != nil {
			sessionData.ExpiresAt = time.Now().Add(sessionTTL)
			if err := writeSession(c, sessionData); err != nil {
				sessionData = nil
			}
		}

		c.Set("session", sessionData)
		c.Next()
	}
}

// getSessionFromCookie extracts and validates session data from cookie
func getSessionFromCookie(c *gin.Context) *SessionData {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	// signature.data
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return nil
	}

	signature, data := parts[0], parts[1]
	if !verifySignature(data, signature) {
		return nil
	}

	decodedData, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	var sessionData SessionData
	if err := json.Unmarshal(decodedData, &sessionData); err != nil {
		return nil
	}

	if time.Now().After(sessionData.ExpiresAt) {
		return nil
	}

	return &sessionData
}

// SetSession creates a new session cookie for user
func SetSession(c *gin.Context, user *models.User) error {
	return writeSession(c, &SessionData{
		UserID:    user.ID.String(),
		Email:     user.Email,
		ExpiresAt: time.Now().Add(sessionTTL),
	})
}

func writeSession(c *gin.Context, sessionData *SessionData) error {
	data, err := json.Marshal(sessionData)
	if err != nil {
		return err
	}

	encodedData := base64.URLEncoding.EncodeToString(data)
	signature := createSignature(encodedData)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, signature+"."+encodedData, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// ClearSession removes the session cookie
func ClearSession(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// createSignature creates HMAC signature for data
func createSignature(data string) string {
	h := hmac.New(sha256.New, []byte(config.AppConfig.Session.Secret))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies HMAC signature
func verifySignature(data, signature string) bool {
	expectedSignature := createSignature(data)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// GetSession retrieves session data from context
func GetSession(c *gin.Context) *SessionData {
	session, exists := c.Get("session")
	if !exists {
		return nil
	}

	if sessionData, ok := session.(*SessionData); ok {
		return sessionData
	}

	return nil
}
