package models

const (
	// HeaderUserID carries the acting user's id on every user-scoped request.
	HeaderUserID = "X-Sharer-User-Id"

	// DefaultFrom and DefaultSize are the paging defaults for list endpoints.
	DefaultFrom = 0
	DefaultSize = 10

	// DefaultState is the booking filter used when none is given.
	DefaultState = "ALL"
)
