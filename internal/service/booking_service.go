package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, draft *models.BookingDraft) (*models.BookingView, error) {
	item, err := s.repo.GetItemByID(ctx, draft.ItemID)
	if err != nil {
		return nil, err
	}
	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, domain.NotFoundf("owner cannot book own item %d", item.ID)
	}
	if !item.Available {
		return nil, domain.Validationf("item %d is not available", item.ID)
	}
	if draft.Start == nil || draft.End == nil {
		return nil, domain.Validationf("start and end must be set")
	}
	start, end := draft.Start.UTC(), draft.End.UTC()
	if start.After(end) {
		return nil, domain.Validationf("start must be before end")
	}
	if start.Equal(end) {
		return nil, domain.Validationf("start must not equal end")
	}

	booking := &models.Booking{
		Start:      start,
		End:        end,
		ItemID:     item.ID,
		BookerID:   bookerID,
		Status:     models.StatusWaiting,
		ItemName:   item.Name,
		OwnerID:    item.OwnerID,
		BookerName: booker.Name,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(booking.Status))
	s.publishEvent(events.EventBookingCreated, booking, bookerID)
	return models.NewBookingView(booking), nil
}

// ApproveBooking moves a WAITING booking to APPROVED or REJECTED. Only the
// item owner may decide.
func (s *BookingService) ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != userID {
		return nil, domain.NotFoundf("booking %d not found for owner %d", bookingID, userID)
	}
	if approved && booking.Status == models.StatusApproved {
		return nil, domain.Validationf("invalid status transition: booking %d is already approved", bookingID)
	}

	status, eventType := models.StatusRejected, events.EventBookingRejected
	if approved {
		status, eventType = models.StatusApproved, events.EventBookingApproved
	}
	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	metrics.IncBookingTransition(string(status))
	s.publishEvent(eventType, booking, userID)
	return models.NewBookingView(booking), nil
}

// GetBooking hides bookings from anyone but the booker and the item owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.OwnerID != userID {
		return nil, domain.NotFoundf("booking %d not found for user %d", bookingID, userID)
	}
	return models.NewBookingView(booking), nil
}

func (s *BookingService) GetBookerBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.BookingView, error) {
	bookings, err := s.list(ctx, domain.ByBooker, userID, state, &pageArgs{from, size})
	if err != nil {
		return nil, err
	}
	return toBookingViews(bookings), nil
}

func (s *BookingService) GetOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.BookingView, error) {
	bookings, err := s.list(ctx, domain.ByItemOwner, userID, state, &pageArgs{from, size})
	if err != nil {
		return nil, err
	}
	return toBookingViews(bookings), nil
}

// ExportOwnerBookings renders every owner booking matching state as an .xlsx workbook.
func (s *BookingService) ExportOwnerBookings(ctx context.Context, userID int64, state string) ([]byte, error) {
	parsed, ok := models.ParseBookingState(state)
	if !ok {
		return nil, domain.UnsupportedStatef("Unknown state: %s", state)
	}
	bookings, err := s.list(ctx, domain.ByItemOwner, userID, state, nil)
	if err != nil {
		return nil, err
	}
	return export.OwnerBookings(parsed, bookings)
}

type pageArgs struct{ from, size int }

// list runs the shared booking query; a nil page lists everything.
func (s *BookingService) list(ctx context.Context, subject domain.BookingSubject, userID int64, rawState string, p *pageArgs) ([]*models.Booking, error) {
	state, ok := models.ParseBookingState(rawState)
	if !ok {
		return nil, domain.UnsupportedStatef("Unknown state: %s", rawState)
	}
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	page := domain.Unpaged
	if p != nil {
		var err error
		if page, err = domain.NewPage(p.from, p.size); err != nil {
			return nil, err
		}
	}

	if subject == domain.ByItemOwner {
		n, err := s.repo.CountItemsByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, domain.Validationf("user %d has no items to book", userID)
		}
	}

	return s.repo.ListBookings(ctx, domain.BookingQuery{
		Subject:   subject,
		SubjectID: userID,
		State:     state,
		Now:       s.now().UTC(),
		Page:      page,
	})
}

func (s *BookingService) publishEvent(eventType string, b *models.Booking, changedBy int64) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		ItemName:  b.ItemName,
		OwnerID:   b.OwnerID,
		BookerID:  b.BookerID,
		Status:    string(b.Status),
		Start:     b.Start,
		End:       b.End,
		ChangedBy: changedBy,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int64("booking_id", b.ID).Msg("failed to publish booking event")
	}
}

func toBookingViews(bookings []*models.Booking) []*models.BookingView {
	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.NewBookingView(b))
	}
	return views
}
