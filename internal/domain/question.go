package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/YusovID/doubt-desk/internal/apperrors"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// NewQuestion opens a doubt on behalf of a student. Every question starts unassigned.
func NewQuestion(id string, student Principal, title, description, topic string, now time.Time) (*Question, error) {
	if isBlank(title) || isBlank(description) || isBlank(topic) {
		return nil, apperrors.Validation("title, description and topic are required")
	}

	return &Question{
		ID:            id,
		Title:         title,
		Description:   description,
		Topic:         topic,
		StudentID:     student.ID,
		Status:        StatusUnassigned,
		Comments:      Thread{},
		ReopenHistory: ReopenHistory{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (q *Question) IsOwnedBy(userID string) bool {
	return userID != "" && q.StudentID == userID
}

func (q *Question) IsAssignedTo(userID string) bool {
	return userID != "" && q.AssignedTo == userID
}

// Accessible reports whether p may read and extend the comment thread.
func (q *Question) Accessible(p Principal, policy Policy) bool {
	if q.IsOwnedBy(p.ID) || q.IsAssignedTo(p.ID) {
		return true
	}

	return q.AssignedTo == "" && q.Status.Claimable() && policy.Can(p, CapClaimQuestion)
}

// Assign lets a tutor claim the question.
func (q *Question) Assign(tutorID string, now time.Time) error {
	if !q.Status.Claimable() || q.AssignedTo != "" {
		return apperrors.Conflict("this doubt is already assigned or resolved")
	}

	q.AssignedTo = tutorID
	q.Status = StatusAssigned
	q.UpdatedAt = now

	return nil
}

// UpdateStatus is the generic transition used by the assigned tutor.
// It does not touch the rating: Rate re-validates on its own.
func (q *Question) UpdateStatus(callerID string, status Status, resolution string, now time.Time) error {
	if !q.IsAssignedTo(callerID) {
		return apperrors.Forbidden("only the assigned tutor can update the status")
	}

	switch {
	case status == "":
		return apperrors.Validation("status is required")
	case !status.Valid():
		return apperrors.Validation(fmt.Sprintf("unknown status '%s'", status))
	case status.Claimable():
		return apperrors.Conflict("an assigned doubt cannot return to the claimable state")
	case status == StatusClosed:
		return apperrors.Conflict("the closed status is reserved")
	}

	q.Status = status
	if resolution != "" {
		q.Resolution = resolution
	}

	q.UpdatedAt = now

	return nil
}

// Resolve marks the doubt resolved; a non-blank comment becomes the newest one.
func (q *Question) Resolve(callerID, commentID, comment string, now time.Time) error {
	if !q.IsAssignedTo(callerID) {
		return apperrors.Forbidden("not authorized to resolve this doubt")
	}

	if !isBlank(comment) {
		q.Comments = q.Comments.Prepend(Comment{
			ID:        commentID,
			UserID:    callerID,
			Text:      comment,
			Replies:   []Reply{},
			CreatedAt: now,
		})
	}

	q.Status = StatusResolved
	q.UpdatedAt = now

	return nil
}

// ReopenText is the synthetic comment body written on reopen.
func ReopenText(reason string) string {
	return "Doubt reopened. Reason: " + reason
}

// Reopen returns a resolved doubt to its tutor.
func (q *Question) Reopen(callerID, commentID, reason string, now time.Time) error {
	if !q.IsOwnedBy(callerID) {
		return apperrors.Forbidden("only the student who created this doubt can reopen it")
	}

	if q.Status != StatusResolved {
		return apperrors.Conflict("only resolved doubts can be reopened")
	}

	if isBlank(reason) {
		return apperrors.Validation("reason is required")
	}

	q.ReopenHistory = append(q.ReopenHistory, ReopenEntry{
		Reason:         reason,
		PreviousStatus: q.Status,
		Date:           now,
	})

	q.Comments = q.Comments.Prepend(Comment{
		ID:        commentID,
		UserID:    callerID,
		Text:      ReopenText(reason),
		Replies:   []Reply{},
		CreatedAt: now,
	})

	q.Status = StatusAssigned
	q.UpdatedAt = now

	return nil
}

// Rate records the student's score once.
func (q *Question) Rate(callerID string, score int, feedback string, now time.Time) error {
	if !q.IsOwnedBy(callerID) {
		return apperrors.Forbidden("only the student who created this doubt can rate it")
	}

	if q.Status != StatusResolved {
		return apperrors.Conflict("only resolved doubts can be rated")
	}

	if q.Rating != nil && q.Rating.Score != 0 {
		return apperrors.Conflict("this doubt has already been rated")
	}

	if score < MinRatingScore || score > MaxRatingScore {
		return apperrors.Validation("please provide a valid rating score between 1 and 5")
	}

	q.Rating = &Rating{
		Score:    score,
		Feedback: feedback,
		RatedAt:  now,
	}
	q.UpdatedAt = now

	return nil
}

func (q *Question) AddComment(userID, commentID, text string, now time.Time) error {
	if isBlank(text) {
		return apperrors.Validation("comment text is required")
	}

	q.Comments = q.Comments.Prepend(Comment{
		ID:        commentID,
		UserID:    userID,
		Text:      text,
		Replies:   []Reply{},
		CreatedAt: now,
	})
	q.UpdatedAt = now

	return nil
}

func (q *Question) AddReply(userID, commentID, replyID, text string, now time.Time) error {
	idx := q.Comments.Find(commentID)
	if idx < 0 {
		return &apperrors.CommentNotFoundError{QuestionID: q.ID, CommentID: commentID}
	}

	if isBlank(text) {
		return apperrors.Validation("reply text is required")
	}

	c := &q.Comments[idx]

	replies := make([]Reply, 0, len(c.Replies)+1)
	replies = append(replies, Reply{
		ID:        replyID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	})
	c.Replies = append(replies, c.Replies...)

	q.UpdatedAt = now

	return nil
}

// ParticipantIDs lists every user referenced by the aggregate.
func (q *Question) ParticipantIDs() []string {
	ids := []string{q.StudentID}
	if q.AssignedTo != "" {
		ids = append(ids, q.AssignedTo)
	}

	return append(ids, q.Comments.AuthorIDs()...)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
