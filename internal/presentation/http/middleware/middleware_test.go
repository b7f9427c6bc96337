package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: map[string]*entity.IdempotencyKey{}}
}

func (m *memoryKeys) GetByKey(_ context.Context, key string, clientID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[clientID.String()+"/"+key], nil
}

func (m *memoryKeys) Create(_ context.Context, k *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[k.ClientID.String()+"/"+k.Key] = k
	return nil
}

func (m *memoryKeys) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func idempotentRouter(repo *memoryKeys, status *int, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(ClientIdentity())
	r.POST("/entries", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"n": *calls})
	})
	return r
}

func post(r *gin.Engine, clientID, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/entries", nil)
	req.Header.Set(ClientIDHeader, clientID)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	repo := newMemoryKeys()
	status, calls := http.StatusOK, 0
	r := idempotentRouter(repo, &status, &calls)
	client := uuid.NewString()

	first := post(r, client, "abc")
	second := post(r, client, "abc")

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))

	post(r, uuid.NewString(), "abc")
	assert.Equal(t, 2, calls, "keys are scoped per client")

	post(r, client, "")
	assert.Equal(t, 3, calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	repo := newMemoryKeys()
	status, calls := http.StatusBadGateway, 0
	r := idempotentRouter(repo, &status, &calls)
	client := uuid.NewString()

	post(r, client, "abc")
	status = http.StatusOK
	w := post(r, client, "abc")

	assert.Equal(t, 2, calls)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotencyIgnoresExpiredKeys(t *testing.T) {
	repo := newMemoryKeys()
	status, calls := http.StatusOK, 0
	r := idempotentRouter(repo, &status, &calls)
	client := uuid.New()

	require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
		Key: "old", ClientID: client, ResponseCode: 200, ResponseBody: `{}`, ExpiresAt: time.Now().Add(-time.Minute),
	}))

	post(r, client.String(), "old")
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	r := gin.New()
	r.Use(ClientIdentity())
	r.POST("/entries", Idempotency(IdempotencyConfig{Repo: newMemoryKeys()}), func(c *gin.Context) {
		close(entered)
		<-release
		c.JSON(http.StatusOK, gin.H{})
	})
	client := uuid.NewString()

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- post(r, client, "abc") }()
	<-entered

	assert.Equal(t, http.StatusConflict, post(r, client, "abc").Code)

	close(release)
	assert.Equal(t, http.StatusOK, (<-done).Code)
}

func TestClientIdentityIssuesCookie(t *testing.T) {
	r := gin.New()
	r.Use(ClientIdentity())
	var seen uuid.UUID
	r.GET("/", func(c *gin.Context) { seen = GetClientID(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, uuid.Nil, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookieName, cookies[0].Name)
	assert.Equal(t, seen.String(), cookies[0].Value)

	issued := seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, issued, seen)
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientIDHeader, "not-a-uuid")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, issued, seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(100, 60)
	assert.InDelta(t, 100.0/60.0, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 100, cfg.BurstSize)

	assert.Equal(t, 20, RateLimiterConfigFrom(0, 0).BurstSize)
}

func TestLoggerAssignsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetRequestID(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc123", seen)
}
