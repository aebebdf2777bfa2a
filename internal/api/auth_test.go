package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shareit/internal/config"
)

func authRouter(cfg config.APIConfig) *gin.Engine {
	r := gin.New()
	r.Use(NewHTTPAuth(cfg).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestHTTPAuth(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{{Key: "gw-key", Extra: "gw-extra", Name: "gateway"}},
		},
	}
	r := authRouter(cfg)

	tests := []struct {
		name   string
		key    string
		extra  string
		status int
	}{
		{"missing headers", "", "", http.StatusUnauthorized},
		{"unknown key", "nope", "gw-extra", http.StatusUnauthorized},
		{"wrong extra", "gw-key", "nope", http.StatusUnauthorized},
		{"valid", "gw-key", "gw-extra", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.key != "" {
				req.Header.Set(apiKeyHeaderDefault, tt.key)
			}
			if tt.extra != "" {
				req.Header.Set(apiExtraHeaderDefault, tt.extra)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHTTPAuthDisabled(t *testing.T) {
	r := authRouter(config.APIConfig{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPRateLimit(t *testing.T) {
	r := authRouter(config.APIConfig{RateLimit: config.APIRateLimitConfig{RPS: 0.001, Burst: 2}})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(apiKeyHeaderDefault, "client-a")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Buckets are per client.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(apiKeyHeaderDefault, "client-b")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	var l *rateLimiter
	assert.True(t, l.allow("x"))
	assert.True(t, newRateLimiter(config.APIRateLimitConfig{}).allow("x"))
}
