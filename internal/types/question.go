package types

import "time"

// Question is a post owned by exactly one user. Content edits are restricted
// to the owner; deletion admits the admin role as an override.
type Question struct {
	ID        int64     `json:"-"`
	UUID      string    `json:"id"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	UserID    int64     `json:"-"`
	OwnerUUID string    `json:"owner_id"`
}
