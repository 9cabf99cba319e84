// Package api holds the wire types of the doubt-desk HTTP API. The shapes
// follow swagger/openapi.yaml.
package api

import "time"

// Defines values for ErrorResponseErrorCode.
const (
	UNAUTHENTICATED ErrorResponseErrorCode = "UNAUTHENTICATED"
	FORBIDDEN       ErrorResponseErrorCode = "FORBIDDEN"
	VALIDATION      ErrorResponseErrorCode = "VALIDATION"
	NOTFOUND        ErrorResponseErrorCode = "NOT_FOUND"
	CONFLICT        ErrorResponseErrorCode = "CONFLICT"
	INTERNAL        ErrorResponseErrorCode = "INTERNAL"
)

// Defines values for QuestionStatus.
const (
	QuestionStatusUNASSIGNED QuestionStatus = "unassigned"
	QuestionStatusOPEN       QuestionStatus = "open"
	QuestionStatusASSIGNED   QuestionStatus = "assigned"
	QuestionStatusRESOLVED   QuestionStatus = "resolved"
	QuestionStatusCLOSED     QuestionStatus = "closed"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// ErrorResponseErrorCode defines model for ErrorResponse.Error.Code.
type ErrorResponseErrorCode string

// QuestionStatus defines model for Question.Status.
type QuestionStatus string

// UserRef is the display-safe projection of an account.
type UserRef struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Reply defines model for Reply.
type Reply struct {
	Id        string    `json:"id"`
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment defines model for Comment.
type Comment struct {
	Id        string    `json:"id"`
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating defines model for Rating.
type Rating struct {
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
	RatedAt  time.Time `json:"ratedAt"`
}

// ReopenEntry defines model for ReopenEntry.
type ReopenEntry struct {
	Reason         string         `json:"reason"`
	PreviousStatus QuestionStatus `json:"previousStatus"`
	Date           time.Time      `json:"date"`
}

// Question defines model for Question.
type Question struct {
	Id            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Topic         string         `json:"topic"`
	Student       UserRef        `json:"student"`
	AssignedTo    *UserRef       `json:"assignedTo,omitempty"`
	Status        QuestionStatus `json:"status"`
	Resolution    *string        `json:"resolution,omitempty"`
	Rating        *Rating        `json:"rating,omitempty"`
	Comments      []Comment      `json:"comments"`
	ReopenHistory []ReopenEntry  `json:"reopenHistory"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
