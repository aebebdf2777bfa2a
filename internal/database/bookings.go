package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.start_date, b.end_date, b.item_id, b.booker_id, b.status,
		i.name AS item_name, i.owner_id, u.name AS booker_name
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	id, err := db.insertReturningID(ctx,
		`INSERT INTO bookings (start_date, end_date, item_id, booker_id, status) VALUES (?, ?, ?, ?, ?)`,
		booking.Start.UTC(), booking.End.UTC(), booking.ItemID, booking.BookerID, booking.Status)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	res, err := db.db.ExecContext(ctx, db.rebind(`UPDATE bookings SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return expectAffected(res, "booking", id)
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	if err := db.db.GetContext(ctx, &b, db.rebind(bookingSelect+` WHERE b.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("booking %d not found", id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	normalizeBooking(&b)
	return &b, nil
}

// ListBookings serves both the booker and the item-owner listings; the state
// adds one filter and picks the sort direction.
func (db *DB) ListBookings(ctx context.Context, q domain.BookingQuery) ([]*models.Booking, error) {
	query := bookingSelect
	args := []interface{}{q.SubjectID}

	switch q.Subject {
	case domain.ByItemOwner:
		query += ` WHERE i.owner_id = ?`
	default:
		query += ` WHERE b.booker_id = ?`
	}

	order := ` ORDER BY b.start_date DESC, b.id DESC`
	now := q.Now.UTC()
	switch q.State {
	case models.StateCurrent:
		query += ` AND b.start_date < ? AND b.end_date > ?`
		args = append(args, now, now)
		order = ` ORDER BY b.start_date ASC, b.id ASC`
	case models.StatePast:
		query += ` AND b.end_date < ?`
		args = append(args, now)
	case models.StateFuture:
		query += ` AND b.start_date > ?`
		args = append(args, now)
	case models.StateWaiting:
		query += ` AND b.status = ?`
		args = append(args, models.StatusWaiting)
	case models.StateRejected:
		query += ` AND b.status = ?`
		args = append(args, models.StatusRejected)
	case models.StateAll, "":
	default:
		return nil, domain.UnsupportedStatef("Unknown state: %s", q.State)
	}

	return db.selectBookings(ctx, query+order+pageClause(q.Page), args...)
}

func (db *DB) GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	return db.firstBooking(ctx,
		bookingSelect+` WHERE b.item_id = ? AND b.status = ? AND b.start_date < ? ORDER BY b.start_date DESC LIMIT 1`,
		itemID, models.StatusApproved, now.UTC())
}

func (db *DB) GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	return db.firstBooking(ctx,
		bookingSelect+` WHERE b.item_id = ? AND b.status = ? AND b.start_date > ? ORDER BY b.start_date ASC LIMIT 1`,
		itemID, models.StatusApproved, now.UTC())
}

// HasFinishedBooking reports whether bookerID holds an approved booking on
// itemID that ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	ok, err := db.exists(ctx,
		`SELECT COUNT(*) FROM bookings WHERE item_id = ? AND booker_id = ? AND status = ? AND end_date < ?`,
		itemID, bookerID, models.StatusApproved, now.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return ok, nil
}

// firstBooking returns nil without error when nothing matches.
func (db *DB) firstBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	bookings, err := db.selectBookings(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return bookings[0], nil
}

func (db *DB) selectBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	if err := db.db.SelectContext(ctx, &bookings, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	for _, b := range bookings {
		normalizeBooking(b)
	}
	return bookings, nil
}

func normalizeBooking(b *models.Booking) {
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
}
