package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ClientCookieName identifies a browser across sessions.
	ClientCookieName = "printledger_client"
	// ClientIDHeader lets non-browser callers pick their own identity.
	ClientIDHeader = "X-Client-ID"

	clientCookieMaxAge = 365 * 24 * 60 * 60
	clientIDKey        = "client_id"
)

// ClientIdentity resolves the client id from the X-Client-ID header or the
// client cookie, issuing a new cookie on first contact.
func ClientIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(ClientIDHeader)); err == nil && id != uuid.Nil {
			c.Set(clientIDKey, id)
			c.Next()
			return
		}

		if raw, err := c.Cookie(ClientCookieName); err == nil {
			if id, err := uuid.Parse(raw); err == nil && id != uuid.Nil {
				c.Set(clientIDKey, id)
				c.Next()
				return
			}
		}

		id := uuid.New()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookieName, id.String(), clientCookieMaxAge, "/", "", false, true)
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// GetClientID retrieves the client ID from gin context
func GetClientID(c *gin.Context) uuid.UUID {
	clientID, exists := c.Get(clientIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := clientID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
