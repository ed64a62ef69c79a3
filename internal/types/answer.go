package types

import "time"

// Answer belongs to one user and one question. Same ownership rules as
// Question: owner edits, owner or admin deletes.
type Answer struct {
	ID              int64     `json:"-"`
	UUID            string    `json:"id"`
	Answer          string    `json:"answer"`
	Date            time.Time `json:"date"`
	UserID          int64     `json:"-"`
	OwnerUUID       string    `json:"owner_id"`
	QuestionID      int64     `json:"-"`
	QuestionUUID    string    `json:"question_id"`
	QuestionContent string    `json:"-"`
}
