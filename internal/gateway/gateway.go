package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

const tier = "gateway"

// Upstream is the server tier as seen by the gateway.
type Upstream interface {
	Forward(ctx context.Context, req UpstreamRequest) (*models.CachedResponse, error)
	Healthz(ctx context.Context) error
}

// Gateway validates requests, applies the per-user rate limit and relays
// everything else to the server tier. GET responses are cached for CacheTTL.
type Gateway struct {
	cfg      config.GatewayConfig
	upstream Upstream
	store    domain.GatewayStore
	logger   *zerolog.Logger
	now      func() time.Time
}

// NewGateway wires the gateway; store may be nil to disable caching and rate limiting.
func NewGateway(cfg config.GatewayConfig, upstream Upstream, store domain.GatewayStore, logger *zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:      cfg,
		upstream: upstream,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Router builds the gateway gin engine with the same surface as the server tier.
func (g *Gateway) Router() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.AccessLog(g.logger, tier))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := g.upstream.Healthz(ctx); err != nil {
			g.logger.Warn().Err(err).Msg("upstream not ready")
			abort(c, http.StatusServiceUnavailable, "upstream unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	rg := r.Group("/", g.rateLimit())

	rg.POST("/users", g.relay(jsonBody[userCreateBody]()))
	rg.GET("/users", g.relay(nil))
	rg.GET("/users/:id", g.relay(pathID("id")))
	rg.PATCH("/users/:id", g.relay(all(pathID("id"), jsonBody[userPatchBody]())))
	rg.DELETE("/users/:id", g.relay(pathID("id")))

	rg.POST("/items", g.relay(all(sharerHeader, jsonBody[itemCreateBody]())))
	rg.GET("/items", g.relay(all(sharerHeader, pageParams)))
	rg.GET("/items/search", g.relay(pageParams))
	rg.GET("/items/:id", g.relay(all(sharerHeader, pathID("id"))))
	rg.PATCH("/items/:id", g.relay(all(sharerHeader, pathID("id"), jsonBody[models.ItemPatch]())))
	rg.POST("/items/:id/comment", g.relay(all(sharerHeader, pathID("id"), jsonBody[commentBody]())))

	rg.POST("/bookings", g.relay(all(sharerHeader, bookingWindow(g.clock))))
	rg.GET("/bookings", g.relay(all(sharerHeader, stateParams)))
	rg.GET("/bookings/owner", g.relay(all(sharerHeader, stateParams)))
	rg.GET("/bookings/owner/export", g.relay(all(sharerHeader, stateParams)))
	rg.GET("/bookings/:id", g.relay(all(sharerHeader, pathID("id"))))
	rg.PATCH("/bookings/:id", g.relay(all(sharerHeader, pathID("id"), approveParams)))

	rg.POST("/requests", g.relay(all(sharerHeader, jsonBody[requestCreateBody]())))
	rg.GET("/requests", g.relay(sharerHeader))
	rg.GET("/requests/all", g.relay(all(sharerHeader, pageParams)))
	rg.GET("/requests/:id", g.relay(all(sharerHeader, pathID("id"))))

	return r
}

func (g *Gateway) clock() time.Time { return g.now() }

// rateLimit allows cfg.RateLimit.Requests per window for each user, keyed by
// the sharer header or the client address. Store errors let the request through.
func (g *Gateway) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.store == nil || g.cfg.RateLimit.Requests <= 0 {
			c.Next()
			return
		}
		key := c.GetHeader(models.HeaderUserID)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		allowed, err := g.store.CheckRateLimit(c.Request.Context(), key, g.cfg.RateLimit.Requests, g.cfg.RateLimit.Window)
		if err != nil {
			g.logger.Error().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimited()
			abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func (g *Gateway) relay(validate requestValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validate != nil {
			if err := validate(c); err != nil {
				abort(c, http.StatusBadRequest, err.Error())
				return
			}
		}
		g.forward(c)
	}
}

func (g *Gateway) forward(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := requestBody(c)
	if err != nil {
		abort(c, http.StatusBadRequest, "unreadable request body")
		return
	}
	req := UpstreamRequest{
		Method:    c.Request.Method,
		URI:       c.Request.URL.RequestURI(),
		UserID:    c.GetHeader(models.HeaderUserID),
		RequestID: api.GetRequestID(c),
		Body:      body,
	}

	cacheKey, cacheable := g.cacheKey(c, req)
	if cacheable {
		cached, err := g.store.GetResponse(ctx, cacheKey)
		if err != nil {
			g.logger.Warn().Err(err).Msg("cache read failed")
		}
		metrics.IncCache(cached != nil)
		if cached != nil {
			write(c, cached)
			return
		}
	}

	resp, err := g.upstream.Forward(ctx, req)
	if err != nil {
		g.logger.Error().Err(err).Str("request_id", req.RequestID).Str("uri", req.URI).Msg("upstream request failed")
		abort(c, http.StatusBadGateway, "upstream unavailable")
		return
	}

	switch {
	case cacheable && resp.Status == http.StatusOK:
		if err := g.store.SetResponse(ctx, cacheKey, resp, g.cfg.CacheTTL); err != nil {
			g.logger.Warn().Err(err).Msg("cache write failed")
		}
	case g.cachingEnabled() && req.Method != http.MethodGet && resp.Status < http.StatusMultipleChoices:
		if err := g.store.BumpCacheGeneration(ctx); err != nil {
			g.logger.Warn().Err(err).Msg("cache invalidation failed")
		}
	}
	write(c, resp)
}

func (g *Gateway) cachingEnabled() bool {
	return g.store != nil && g.cfg.CacheTTL > 0
}

// cacheKey scopes a GET response by cache generation, user and URI.
func (g *Gateway) cacheKey(c *gin.Context, req UpstreamRequest) (string, bool) {
	if !g.cachingEnabled() || req.Method != http.MethodGet {
		return "", false
	}
	gen, err := g.store.CacheGeneration(c.Request.Context())
	if err != nil {
		g.logger.Warn().Err(err).Msg("cache generation unavailable")
		return "", false
	}
	return fmt.Sprintf("%d:%s:%s", gen, req.UserID, req.URI), true
}

// requestBody returns the bytes already read by binding, or reads them now.
func requestBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}

func write(c *gin.Context, resp *models.CachedResponse) {
	if len(resp.Body) == 0 {
		c.Status(resp.Status)
		return
	}
	c.Data(resp.Status, resp.ContentType, resp.Body)
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
