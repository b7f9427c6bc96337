package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/printledger/internal/config"
)

// CORSMiddleware creates a CORS middleware with the provided configuration.
// Empty lists fall back to defaults for a page served on localhost.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", RequestIDHeader, "X-Idempotency-Replayed"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}

	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{"Accept", "Content-Type", "Origin", RequestIDHeader}
	}
	for _, required := range []string{IdempotencyKeyHeader, ClientIDHeader} {
		if !containsHeader(corsConfig.AllowHeaders, required) {
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, required)
		}
	}

	return cors.New(corsConfig)
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
