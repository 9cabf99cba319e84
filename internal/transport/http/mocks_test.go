package http

import (
	"context"
	"errors"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/service"
	"github.com/YusovID/doubt-desk/pkg/api"
	"github.com/stretchr/testify/mock"
)

type QuestionServiceMock struct {
	mock.Mock
}

var _ service.QuestionService = (*QuestionServiceMock)(nil)

func (m *QuestionServiceMock) question(args mock.Arguments) (*api.Question, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Question), args.Error(1)
}

func (m *QuestionServiceMock) questions(args mock.Arguments) ([]api.Question, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Question), args.Error(1)
}

func (m *QuestionServiceMock) comments(args mock.Arguments) ([]api.Comment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Comment), args.Error(1)
}

func (m *QuestionServiceMock) CreateQuestion(ctx context.Context, p domain.Principal, title, description, topic string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, title, description, topic))
}

func (m *QuestionServiceMock) ListQuestions(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	return m.questions(m.Called(ctx, p))
}

func (m *QuestionServiceMock) ListMine(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	return m.questions(m.Called(ctx, p))
}

func (m *QuestionServiceMock) ListAssigned(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	return m.questions(m.Called(ctx, p))
}

func (m *QuestionServiceMock) ListAvailable(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	return m.questions(m.Called(ctx, p))
}

func (m *QuestionServiceMock) Assign(ctx context.Context, p domain.Principal, questionID string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, questionID))
}

func (m *QuestionServiceMock) UpdateStatus(ctx context.Context, p domain.Principal, questionID string, status domain.Status, resolution string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, questionID, status, resolution))
}

func (m *QuestionServiceMock) Resolve(ctx context.Context, p domain.Principal, questionID, comment string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, questionID, comment))
}

func (m *QuestionServiceMock) Reopen(ctx context.Context, p domain.Principal, questionID, reason string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, questionID, reason))
}

func (m *QuestionServiceMock) Rate(ctx context.Context, p domain.Principal, questionID string, score int, feedback string) (*api.Question, error) {
	return m.question(m.Called(ctx, p, questionID, score, feedback))
}

func (m *QuestionServiceMock) AddComment(ctx context.Context, p domain.Principal, questionID, text string) ([]api.Comment, error) {
	return m.comments(m.Called(ctx, p, questionID, text))
}

func (m *QuestionServiceMock) AddReply(ctx context.Context, p domain.Principal, questionID, commentID, text string) ([]api.Comment, error) {
	return m.comments(m.Called(ctx, p, questionID, commentID, text))
}

func (m *QuestionServiceMock) GetComments(ctx context.Context, p domain.Principal, questionID string) ([]api.Comment, error) {
	return m.comments(m.Called(ctx, p, questionID))
}

// stubResolver maps fixed tokens to principals.
type stubResolver map[string]domain.Principal

func (s stubResolver) Resolve(_ context.Context, token string) (domain.Principal, error) {
	p, ok := s[token]
	if !ok {
		return domain.Principal{}, apperrors.Unauthenticated("invalid or expired token")
	}

	return p, nil
}

type stubHealth struct{ err error }

func (s stubHealth) Ping(context.Context) error { return s.err }

var errDBDown = errors.New("dial tcp: connection refused")
