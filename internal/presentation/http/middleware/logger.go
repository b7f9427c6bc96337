package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware logs one line per request, prefixed with a short request id.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		short := shortID(requestID)
		log.Printf("[%s] %s | %d | %v | %s | %s",
			short,
			c.Request.Method,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			path,
		)

		for _, e := range c.Errors {
			log.Printf("[%s] Error: %v", short, e.Err)
		}
	}
}

// GetRequestID returns the id assigned by LoggerMiddleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
