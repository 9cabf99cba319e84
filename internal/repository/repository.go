// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying store from the service layer.
package repository

import (
	"context"
	"time"

	"github.com/YusovID/doubt-desk/internal/domain"
)

// QuestionQueryRepository defines the read side of the question store.
type QuestionQueryRepository interface {
	// GetQuestionByID loads the whole aggregate, comments and replies included.
	// It returns an error matching apperrors.ErrNotFound if the question does not exist.
	GetQuestionByID(ctx context.Context, id string) (*domain.Question, error)

	// ListQuestions returns every question matching the filter, sorted descending on filter.OrderBy.
	ListQuestions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error)
}

// QuestionCommandRepository defines the write side of the question store.
// Writes replace the whole aggregate; there is no row locking, so concurrent
// writers race and the last one wins.
type QuestionCommandRepository interface {
	// CreateQuestion inserts a new aggregate.
	CreateQuestion(ctx context.Context, q *domain.Question) error

	// SaveQuestion persists every mutable field of the aggregate.
	// It returns an error matching apperrors.ErrNotFound if the question vanished.
	SaveQuestion(ctx context.Context, q *domain.Question) error
}

// UserRepository is the read-only view of the account store needed for projections.
type UserRepository interface {
	// GetProfilesByIDs returns the display-safe profile of every known id.
	// Unknown ids are simply absent from the result.
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]domain.Profile, error)
}

// ProfileCache keeps recently used profiles close to the service.
type ProfileCache interface {
	// GetProfiles returns cached profiles and the ids that missed.
	GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, []string, error)

	// SetProfiles stores profiles for ttl.
	SetProfiles(ctx context.Context, profiles []domain.Profile, ttl time.Duration) error
}
