package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page Page) ([]*models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string, page Page) ([]*models.Item, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, query BookingQuery) ([]*models.Booking, error)
	// GetLastBooking returns the approved booking with the latest start before now.
	GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	// GetNextBooking returns the approved booking with the earliest start after now.
	GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcludingRequester(ctx context.Context, requesterID int64, page Page) ([]*models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
}

// Repository is the full store consumed by the services.
type Repository interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch *models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ItemService interface {
	AddItem(ctx context.Context, ownerID int64, draft *models.ItemDraft) (*models.ItemView, error)
	UpdateItem(ctx context.Context, itemID, ownerID int64, patch *models.ItemPatch) (*models.ItemView, error)
	GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemView, error)
	GetOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemView, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]*models.ItemView, error)
}

type CommentService interface {
	PostComment(ctx context.Context, userID, itemID int64, draft *models.CommentDraft) (*models.CommentView, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID int64, draft *models.BookingDraft) (*models.BookingView, error)
	ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.BookingView, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.BookingView, error)
	GetBookerBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.BookingView, error)
	GetOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.BookingView, error)
	ExportOwnerBookings(ctx context.Context, userID int64, state string) ([]byte, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, draft *models.RequestDraft) (*models.RequestView, error)
	GetOwnRequests(ctx context.Context, userID int64) ([]*models.RequestView, error)
	GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.RequestView, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error)
}

// GatewayStore backs the gateway response cache and per-user rate limit.
// Cached entries are keyed under a generation that mutations bump.
type GatewayStore interface {
	GetResponse(ctx context.Context, key string) (*models.CachedResponse, error)
	SetResponse(ctx context.Context, key string, resp *models.CachedResponse, ttl time.Duration) error
	CacheGeneration(ctx context.Context) (int64, error)
	BumpCacheGeneration(ctx context.Context) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
