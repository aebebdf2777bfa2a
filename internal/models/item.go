package models

// Item is a shareable object listed by its owner.
type Item struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Available   bool   `db:"available"`
	OwnerID     int64  `db:"owner_id"`
	RequestID   *int64 `db:"request_id"`
}

// ItemDraft is the body of an item creation request.
type ItemDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// ItemPatch carries a partial update; nil fields are left untouched.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemView is the item as returned to clients. Booking decorations are set
// only when the viewer owns the item.
type ItemView struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Available   bool           `json:"available"`
	RequestID   *int64         `json:"requestId,omitempty"`
	LastBooking *ShortBooking  `json:"lastBooking"`
	NextBooking *ShortBooking  `json:"nextBooking"`
	Comments    []*CommentView `json:"comments"`
}

// ItemRef is the item summary nested in booking views.
type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewItemView(item *Item) *ItemView {
	return &ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    []*CommentView{},
	}
}
