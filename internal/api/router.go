package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
)

// Services bundles the business operations exposed over HTTP.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Comments domain.CommentService
	Bookings domain.BookingService
	Requests domain.RequestService
}

type handler struct {
	svc    Services
	logger *zerolog.Logger
}

// NewRouter builds the server-tier gin engine.
func NewRouter(cfg config.APIConfig, svc Services, store Pinger, logger *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger, "server"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			abortError(c, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	h := &handler{svc: svc, logger: logger}
	api := r.Group("/", NewHTTPAuth(cfg).Middleware())

	users := api.Group("/users")
	users.POST("", h.createUser)
	users.GET("", h.listUsers)
	users.GET("/:userId", h.getUser)
	users.PATCH("/:userId", h.updateUser)
	users.DELETE("/:userId", h.deleteUser)

	items := api.Group("/items")
	items.POST("", h.addItem)
	items.GET("", h.ownerItems)
	items.GET("/search", h.searchItems)
	items.GET("/:itemId", h.getItem)
	items.PATCH("/:itemId", h.updateItem)
	items.POST("/:itemId/comment", h.postComment)

	bookings := api.Group("/bookings")
	bookings.POST("", h.createBooking)
	bookings.GET("", h.bookerBookings)
	bookings.GET("/owner", h.ownerBookings)
	bookings.GET("/owner/export", h.exportOwnerBookings)
	bookings.GET("/:bookingId", h.getBooking)
	bookings.PATCH("/:bookingId", h.approveBooking)

	requests := api.Group("/requests")
	requests.POST("", h.createRequest)
	requests.GET("", h.ownRequests)
	requests.GET("/all", h.otherRequests)
	requests.GET("/:requestId", h.getRequest)

	return r
}

// HTTPServer runs the server-tier API.
type HTTPServer struct {
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, store Pinger, logger *zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           NewRouter(cfg, svc, store, logger),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
		},
		logger: logger,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
