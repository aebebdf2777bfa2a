package models

import "time"

// ItemRequest is a user's post asking for an item nobody lists yet.
type ItemRequest struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	RequesterID int64     `db:"requester_id"`
	Created     time.Time `db:"created"`
}

type RequestDraft struct {
	Description string `json:"description"`
}

// RequestView is a request decorated with the items listed against it.
type RequestView struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Created     DateTime    `json:"created"`
	Items       []*ItemView `json:"items"`
}
