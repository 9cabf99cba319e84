package service

import (
	"context"
	"time"

	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/repository"
	"github.com/stretchr/testify/mock"
)

type QuestionQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.QuestionQueryRepository = (*QuestionQueryRepositoryMock)(nil)

func (m *QuestionQueryRepositoryMock) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *QuestionQueryRepositoryMock) ListQuestions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Question), args.Error(1)
}

type QuestionCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.QuestionCommandRepository = (*QuestionCommandRepositoryMock)(nil)

func (m *QuestionCommandRepositoryMock) CreateQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *QuestionCommandRepositoryMock) SaveQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[string]domain.Profile), args.Error(1)
}

type ProfileCacheMock struct {
	mock.Mock
}

var _ repository.ProfileCache = (*ProfileCacheMock)(nil)

func (m *ProfileCacheMock) GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, []string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}

	missing, _ := args.Get(1).([]string)

	return args.Get(0).(map[string]domain.Profile), missing, args.Error(2)
}

func (m *ProfileCacheMock) SetProfiles(ctx context.Context, profiles []domain.Profile, ttl time.Duration) error {
	args := m.Called(ctx, profiles, ttl)
	return args.Error(0)
}

// staticProfiles resolves from a fixed map.
type staticProfiles map[string]domain.Profile

func (s staticProfiles) Lookup(_ context.Context, ids []string) (map[string]domain.Profile, error) {
	out := make(map[string]domain.Profile, len(ids))
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}

	return out, nil
}
