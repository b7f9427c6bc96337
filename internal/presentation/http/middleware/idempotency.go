package middleware

import (
	"bytes"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/internal/domain/repository"
	"github.com/sangkips/printledger/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type inFlightKey struct {
	clientID uuid.UUID
	key      string
}

// Idempotency replays the stored response of a request already completed
// with the same Idempotency-Key for the same client. A key whose first
// request is still running gets 409. Only 2xx responses are stored, so a
// failed submission can be retried with the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		inFlight = make(map[inFlightKey]struct{})
	)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		if len(idempotencyKey) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		clientID := GetClientID(c)
		if clientID == uuid.Nil {
			c.Next()
			return
		}

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, clientID)
		if err != nil {
			log.Printf("[%s] Error checking idempotency key: %v", shortID(GetRequestID(c)), err)
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		k := inFlightKey{clientID: clientID, key: idempotencyKey}
		mu.Lock()
		if _, busy := inFlight[k]; busy {
			mu.Unlock()
			response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is already in progress")
			c.Abort()
			return
		}
		inFlight[k] = struct{}{}
		mu.Unlock()

		defer func() {
			mu.Lock()
			delete(inFlight, k)
			mu.Unlock()
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			ikey := &entity.IdempotencyKey{
				Key:          idempotencyKey,
				ClientID:     clientID,
				Endpoint:     c.Request.Method + " " + c.FullPath(),
				ResponseCode: status,
				ResponseBody: blw.body.String(),
				ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
			}

			if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
				log.Printf("[%s] Error storing idempotency key: %v", shortID(GetRequestID(c)), err)
			}
		}
	}
}
