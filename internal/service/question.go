package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/repository"
	"github.com/YusovID/doubt-desk/pkg/api"
	"github.com/google/uuid"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, p domain.Principal, title, description, topic string) (*api.Question, error)
	ListQuestions(ctx context.Context, p domain.Principal) ([]api.Question, error)
	ListMine(ctx context.Context, p domain.Principal) ([]api.Question, error)
	ListAssigned(ctx context.Context, p domain.Principal) ([]api.Question, error)
	ListAvailable(ctx context.Context, p domain.Principal) ([]api.Question, error)
	Assign(ctx context.Context, p domain.Principal, questionID string) (*api.Question, error)
	UpdateStatus(ctx context.Context, p domain.Principal, questionID string, status domain.Status, resolution string) (*api.Question, error)
	Resolve(ctx context.Context, p domain.Principal, questionID, comment string) (*api.Question, error)
	Reopen(ctx context.Context, p domain.Principal, questionID, reason string) (*api.Question, error)
	Rate(ctx context.Context, p domain.Principal, questionID string, score int, feedback string) (*api.Question, error)
	AddComment(ctx context.Context, p domain.Principal, questionID, text string) ([]api.Comment, error)
	AddReply(ctx context.Context, p domain.Principal, questionID, commentID, text string) ([]api.Comment, error)
	GetComments(ctx context.Context, p domain.Principal, questionID string) ([]api.Comment, error)
}

// QuestionServiceImpl runs every workflow operation as one
// load, check, mutate, save cycle against the store. Nothing is locked:
// concurrent writers to the same question race and the last save wins.
type QuestionServiceImpl struct {
	log      *slog.Logger
	qQuery   repository.QuestionQueryRepository
	qCmd     repository.QuestionCommandRepository
	profiles ProfileResolver
	policy   domain.Policy

	now   func() time.Time
	newID func() string
}

func NewQuestionService(
	log *slog.Logger,
	qQuery repository.QuestionQueryRepository,
	qCmd repository.QuestionCommandRepository,
	profiles ProfileResolver,
	policy domain.Policy,
) *QuestionServiceImpl {
	return &QuestionServiceImpl{
		log:      log,
		qQuery:   qQuery,
		qCmd:     qCmd,
		profiles: profiles,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *QuestionServiceImpl) CreateQuestion(ctx context.Context, p domain.Principal, title, description, topic string) (*api.Question, error) {
	const op = "internal.service.question.CreateQuestion"
	log := s.log.With(slog.String("op", op), slog.String("user_id", p.ID))

	if !s.policy.Can(p, domain.CapCreateQuestion) {
		return nil, apperrors.Forbidden("only students can create questions")
	}

	q, err := domain.NewQuestion(s.newID(), p, title, description, topic, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.qCmd.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("%s: failed to create question: %w", op, err)
	}

	log.Info("question created", slog.String("question_id", q.ID))

	return s.project(ctx, op, q)
}

// ListQuestions scopes the listing by capability: own questions first, then
// assigned ones. Roles holding neither are refused.
func (s *QuestionServiceImpl) ListQuestions(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	const op = "internal.service.question.ListQuestions"

	var filter domain.QuestionFilter

	switch {
	case s.policy.Can(p, domain.CapListOwn):
		filter = domain.QuestionFilter{StudentID: p.ID}
	case s.policy.Can(p, domain.CapListAssigned):
		filter = domain.QuestionFilter{AssignedTo: p.ID}
	default:
		return nil, apperrors.Forbidden("access denied")
	}

	filter.OrderBy = domain.SortByCreatedAt

	return s.list(ctx, op, filter)
}

func (s *QuestionServiceImpl) ListMine(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	const op = "internal.service.question.ListMine"

	if !s.policy.Can(p, domain.CapListOwn) {
		return nil, apperrors.Forbidden("access denied, students only")
	}

	return s.list(ctx, op, domain.QuestionFilter{
		StudentID: p.ID,
		OrderBy:   domain.SortByCreatedAt,
	})
}

func (s *QuestionServiceImpl) ListAssigned(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	const op = "internal.service.question.ListAssigned"

	if !s.policy.Can(p, domain.CapListAssigned) {
		return nil, apperrors.Forbidden("access denied, tutors only")
	}

	return s.list(ctx, op, domain.QuestionFilter{
		AssignedTo: p.ID,
		Statuses:   []domain.Status{domain.StatusAssigned, domain.StatusResolved},
		OrderBy:    domain.SortByUpdatedAt,
	})
}

func (s *QuestionServiceImpl) ListAvailable(ctx context.Context, p domain.Principal) ([]api.Question, error) {
	const op = "internal.service.question.ListAvailable"

	if !s.policy.Can(p, domain.CapListAvailable) {
		return nil, apperrors.Forbidden("access denied, tutors only")
	}

	return s.list(ctx, op, domain.QuestionFilter{
		Unassigned: true,
		Statuses:   domain.ClaimableStatuses,
		OrderBy:    domain.SortByCreatedAt,
	})
}

func (s *QuestionServiceImpl) Assign(ctx context.Context, p domain.Principal, questionID string) (*api.Question, error) {
	const op = "internal.service.question.Assign"

	return s.mutate(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		if !s.policy.Can(p, domain.CapClaimQuestion) {
			return apperrors.Forbidden("access denied, tutors only")
		}

		return q.Assign(p.ID, now)
	})
}

func (s *QuestionServiceImpl) UpdateStatus(ctx context.Context, p domain.Principal, questionID string, status domain.Status, resolution string) (*api.Question, error) {
	const op = "internal.service.question.UpdateStatus"

	return s.mutate(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		return q.UpdateStatus(p.ID, status, resolution, now)
	})
}

func (s *QuestionServiceImpl) Resolve(ctx context.Context, p domain.Principal, questionID, comment string) (*api.Question, error) {
	const op = "internal.service.question.Resolve"

	return s.mutate(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		return q.Resolve(p.ID, s.newID(), comment, now)
	})
}

func (s *QuestionServiceImpl) Reopen(ctx context.Context, p domain.Principal, questionID, reason string) (*api.Question, error) {
	const op = "internal.service.question.Reopen"

	return s.mutate(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		return q.Reopen(p.ID, s.newID(), reason, now)
	})
}

func (s *QuestionServiceImpl) Rate(ctx context.Context, p domain.Principal, questionID string, score int, feedback string) (*api.Question, error) {
	const op = "internal.service.question.Rate"

	return s.mutate(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		return q.Rate(p.ID, score, feedback, now)
	})
}

func (s *QuestionServiceImpl) AddComment(ctx context.Context, p domain.Principal, questionID, text string) ([]api.Comment, error) {
	const op = "internal.service.question.AddComment"

	q, err := s.apply(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		if !q.Accessible(p, s.policy) {
			return apperrors.Forbidden("not a participant of this doubt")
		}

		return q.AddComment(p.ID, s.newID(), text, now)
	})
	if err != nil {
		return nil, err
	}

	return s.projectThread(ctx, op, q)
}

func (s *QuestionServiceImpl) AddReply(ctx context.Context, p domain.Principal, questionID, commentID, text string) ([]api.Comment, error) {
	const op = "internal.service.question.AddReply"

	q, err := s.apply(ctx, op, p, questionID, func(q *domain.Question, now time.Time) error {
		if !q.Accessible(p, s.policy) {
			return apperrors.Forbidden("not a participant of this doubt")
		}

		return q.AddReply(p.ID, commentID, s.newID(), text, now)
	})
	if err != nil {
		return nil, err
	}

	return s.projectThread(ctx, op, q)
}

func (s *QuestionServiceImpl) GetComments(ctx context.Context, p domain.Principal, questionID string) ([]api.Comment, error) {
	const op = "internal.service.question.GetComments"

	q, err := s.qQuery.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, wrapStoreError(op, "failed to get question", err)
	}

	if !q.Accessible(p, s.policy) {
		return nil, apperrors.Forbidden("not a participant of this doubt")
	}

	return s.projectThread(ctx, op, q)
}

// apply loads the question, runs fn and saves the result when fn succeeds.
func (s *QuestionServiceImpl) apply(
	ctx context.Context,
	op string,
	p domain.Principal,
	questionID string,
	fn func(q *domain.Question, now time.Time) error,
) (*domain.Question, error) {
	log := s.log.With(slog.String("op", op), slog.String("question_id", questionID), slog.String("user_id", p.ID))

	q, err := s.qQuery.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, wrapStoreError(op, "failed to get question", err)
	}

	if err := fn(q, s.now()); err != nil {
		log.Debug("operation rejected", slog.String("kind", apperrors.KindOf(err)))
		return nil, err
	}

	if err := s.qCmd.SaveQuestion(ctx, q); err != nil {
		return nil, wrapStoreError(op, "failed to save question", err)
	}

	log.Info("question updated", slog.String("status", q.Status.String()))

	return q, nil
}

func (s *QuestionServiceImpl) mutate(
	ctx context.Context,
	op string,
	p domain.Principal,
	questionID string,
	fn func(q *domain.Question, now time.Time) error,
) (*api.Question, error) {
	q, err := s.apply(ctx, op, p, questionID, fn)
	if err != nil {
		return nil, err
	}

	return s.project(ctx, op, q)
}

func (s *QuestionServiceImpl) list(ctx context.Context, op string, filter domain.QuestionFilter) ([]api.Question, error) {
	questions, err := s.qQuery.ListQuestions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list questions: %w", op, err)
	}

	var ids []string
	for i := range questions {
		ids = append(ids, questions[i].ParticipantIDs()...)
	}

	profiles, err := s.profiles.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.Question, len(questions))
	for i := range questions {
		out[i] = *toAPIQuestion(&questions[i], profiles)
	}

	return out, nil
}

func (s *QuestionServiceImpl) project(ctx context.Context, op string, q *domain.Question) (*api.Question, error) {
	profiles, err := s.profiles.Lookup(ctx, q.ParticipantIDs())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toAPIQuestion(q, profiles), nil
}

func (s *QuestionServiceImpl) projectThread(ctx context.Context, op string, q *domain.Question) ([]api.Comment, error) {
	profiles, err := s.profiles.Lookup(ctx, q.Comments.AuthorIDs())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toAPIComments(q.Comments, profiles), nil
}

// wrapStoreError keeps classified store errors intact and wraps the rest with op.
func wrapStoreError(op, msg string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}

	return fmt.Errorf("%s: %s: %w", op, msg, err)
}
