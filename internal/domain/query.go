package domain

import (
	"time"

	"shareit/internal/models"
)

// Page is a resolved limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// Unpaged selects every row.
var Unpaged = Page{}

// NewPage validates from/size and resolves the window: the page index is
// from/size, so offsets snap down to a multiple of size.
func NewPage(from, size int) (Page, error) {
	if from == 0 && size == 0 {
		return Page{}, Validationf("size and from must not both be zero")
	}
	if size <= 0 {
		return Page{}, Validationf("size must be positive")
	}
	if from < 0 {
		return Page{}, Validationf("from must not be negative")
	}
	index := from / size
	return Page{Limit: size, Offset: index * size}, nil
}

// BookingSubject selects whose bookings a query lists.
type BookingSubject int

const (
	ByBooker BookingSubject = iota
	ByItemOwner
)

// BookingQuery is the single parametrized booking listing.
type BookingQuery struct {
	Subject   BookingSubject
	SubjectID int64
	State     models.BookingState
	Now       time.Time
	Page      Page
}
