package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

var testNow = time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type env struct {
	repo     *fakeRepo
	pub      *mockPublisher
	users    *UserService
	items    *ItemService
	comments *CommentService
	bookings *BookingService
	requests *RequestService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := newFakeRepo()
	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Maybe()

	e := &env{
		repo:     repo,
		pub:      pub,
		users:    NewUserService(repo, nopLogger()),
		items:    NewItemService(repo, nopLogger()),
		comments: NewCommentService(repo, nopLogger()),
		bookings: NewBookingService(repo, pub, nopLogger()),
		requests: NewRequestService(repo, nopLogger()),
	}
	e.items.now = fixedClock
	e.comments.now = fixedClock
	e.bookings.now = fixedClock
	e.requests.now = fixedClock
	return e
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (e *env) item(t *testing.T, ownerID int64, name string, available bool) *models.ItemView {
	t.Helper()
	v, err := e.items.AddItem(context.Background(), ownerID, &models.ItemDraft{
		Name: name, Description: name + " for rent", Available: &available,
	})
	require.NoError(t, err)
	return v
}

func (e *env) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *models.BookingView {
	t.Helper()
	s, en := models.NewDateTime(start), models.NewDateTime(end)
	v, err := e.bookings.CreateBooking(context.Background(), bookerID, &models.BookingDraft{ItemID: itemID, Start: &s, End: &en})
	require.NoError(t, err)
	return v
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

