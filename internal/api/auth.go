package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shareit/internal/config"
)

var (
	errMissingKey   = errors.New("missing api key headers")
	errInvalidKey   = errors.New("invalid api key")
	errInvalidExtra = errors.New("invalid extra header")
)

// HTTPAuth provides API-key auth and per-client rate limiting for the server API.
type HTTPAuth struct {
	cfg     config.APIConfig
	clients map[string]config.APIClientKey
	limiter *rateLimiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	if cfg.Auth.HeaderAPIKey == "" {
		cfg.Auth.HeaderAPIKey = apiKeyHeaderDefault
	}
	if cfg.Auth.HeaderExtra == "" {
		cfg.Auth.HeaderExtra = apiExtraHeaderDefault
	}
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m, limiter: newRateLimiter(cfg.RateLimit)}
}

// Middleware rejects unauthenticated callers with 401 and throttled ones with 429.
func (a *HTTPAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(c.Request); err != nil {
				abortError(c, http.StatusUnauthorized, err.Error())
				return
			}
		}

		if !a.limiter.allow(a.clientKey(c)) {
			abortError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		c.Next()
	}
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.cfg.Auth.HeaderAPIKey))
	extra := strings.TrimSpace(r.Header.Get(a.cfg.Auth.HeaderExtra))
	if apiKey == "" || extra == "" {
		return errMissingKey
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return errInvalidKey
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return errInvalidExtra
	}
	return nil
}

func (a *HTTPAuth) clientKey(c *gin.Context) string {
	if apiKey := strings.TrimSpace(c.GetHeader(a.cfg.Auth.HeaderAPIKey)); apiKey != "" {
		return apiKey
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return clientKeyUnknown
}
