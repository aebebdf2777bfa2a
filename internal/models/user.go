package models

// User is a registered ShareIt user. It doubles as the wire view.
type User struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserRef is the booker summary nested in booking views.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
