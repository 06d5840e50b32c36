package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	calls := 0
	status := http.StatusOK
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ships", Cache(cache.New(time.Minute, time.Minute), time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"calls": calls})
	})

	first := serve(r, http.MethodGet, "/ships?limit=5&offset=0")
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.JSONEq(t, `{"calls":1}`, first.Body.String())

	second := serve(r, http.MethodGet, "/ships?offset=0&limit=5")
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.JSONEq(t, `{"calls":1}`, second.Body.String())
	assert.NotEqual(t, first.Header().Get(RequestIDHeader), second.Header().Get(RequestIDHeader))

	other := serve(r, http.MethodGet, "/ships?limit=6")
	assert.JSONEq(t, `{"calls":2}`, other.Body.String())
	assert.Equal(t, 2, calls)
}

func TestCache_SkipsFailures(t *testing.T) {
	calls := 0
	r := gin.New()
	r.GET("/ships", Cache(cache.New(time.Minute, time.Minute), time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"calls": calls})
	})

	serve(r, http.MethodGet, "/ships")
	w := serve(r, http.MethodGet, "/ships")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 2, calls)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/hello", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/hello").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/hello").Code)

	w := serve(r, http.MethodGet, "/hello")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"RATE_LIMITED"`)
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, http.MethodGet, "/")
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecoveryAndAccessLog(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"INTERNAL_SERVER_ERROR"`)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
