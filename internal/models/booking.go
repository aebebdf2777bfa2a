package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Booking is a reservation of an item. ItemName, OwnerID and BookerName are
// denormalized from joins and are not written back.
type Booking struct {
	ID         int64         `db:"id"`
	Start      time.Time     `db:"start_date"`
	End        time.Time     `db:"end_date"`
	ItemID     int64         `db:"item_id"`
	BookerID   int64         `db:"booker_id"`
	Status     BookingStatus `db:"status"`
	ItemName   string        `db:"item_name"`
	OwnerID    int64         `db:"owner_id"`
	BookerName string        `db:"booker_name"`
}

// BookingDraft is the body of a booking creation request.
type BookingDraft struct {
	ItemID int64     `json:"itemId"`
	Start  *DateTime `json:"start"`
	End    *DateTime `json:"end"`
}

type BookingView struct {
	ID     int64         `json:"id"`
	Start  DateTime      `json:"start"`
	End    DateTime      `json:"end"`
	Status BookingStatus `json:"status"`
	Item   ItemRef       `json:"item"`
	Booker UserRef       `json:"booker"`
}

// ShortBooking is the last/next booking decoration on an item.
type ShortBooking struct {
	ID       int64    `json:"id"`
	Start    DateTime `json:"start"`
	End      DateTime `json:"end"`
	BookerID int64    `json:"bookerId"`
}

func NewBookingView(b *Booking) *BookingView {
	return &BookingView{
		ID:     b.ID,
		Start:  NewDateTime(b.Start),
		End:    NewDateTime(b.End),
		Status: b.Status,
		Item:   ItemRef{ID: b.ItemID, Name: b.ItemName},
		Booker: UserRef{ID: b.BookerID, Name: b.BookerName},
	}
}

func NewShortBooking(b *Booking) *ShortBooking {
	return &ShortBooking{
		ID:       b.ID,
		Start:    NewDateTime(b.Start),
		End:      NewDateTime(b.End),
		BookerID: b.BookerID,
	}
}

// BookingState narrows booking listings by time or status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = map[BookingState]struct{}{
	StateAll:      {},
	StateCurrent:  {},
	StatePast:     {},
	StateFuture:   {},
	StateWaiting:  {},
	StateRejected: {},
}

// ParseBookingState is case-insensitive; an empty value means ALL.
func ParseBookingState(raw string) (BookingState, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StateAll, true
	}
	state := BookingState(strings.ToUpper(raw))
	_, ok := bookingStates[state]
	return state, ok
}
