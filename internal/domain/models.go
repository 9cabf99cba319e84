package domain

import (
	"time"
)

type User struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Role  Role   `db:"role"`
}

// Profile is the display-safe projection of a user: never credentials.
type Profile struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

type Rating struct {
	Score    int
	Feedback string
	RatedAt  time.Time
}

// Question is the aggregate root of a doubt. Comments, replies and the
// reopen history are embedded and persisted with it as one unit.
type Question struct {
	ID            string
	Title         string
	Description   string
	Topic         string
	StudentID     string
	AssignedTo    string
	Status        Status
	Resolution    string
	Rating        *Rating
	Comments      Thread
	ReopenHistory ReopenHistory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// QuestionFilter narrows a listing. Zero-valued fields do not filter.
type QuestionFilter struct {
	StudentID  string
	AssignedTo string
	Statuses   []Status
	Unassigned bool
	OrderBy    SortField
}
