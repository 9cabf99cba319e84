package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	questionsTable = "questions"

	pgUniqueViolation = "23505"
)

var questionColumns = []string{
	"id", "title", "description", "topic", "student_id", "assigned_to", "status", "resolution",
	"rating_score", "rating_feedback", "rated_at", "comments", "reopen_history", "created_at", "updated_at",
}

type QuestionRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewQuestionRepository(db *sqlx.DB, log *slog.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type questionRow struct {
	ID             string               `db:"id"`
	Title          string               `db:"title"`
	Description    string               `db:"description"`
	Topic          string               `db:"topic"`
	StudentID      string               `db:"student_id"`
	AssignedTo     sql.NullString       `db:"assigned_to"`
	Status         domain.Status        `db:"status"`
	Resolution     sql.NullString       `db:"resolution"`
	RatingScore    sql.NullInt32        `db:"rating_score"`
	RatingFeedback sql.NullString       `db:"rating_feedback"`
	RatedAt        sql.NullTime         `db:"rated_at"`
	Comments       domain.Thread        `db:"comments"`
	ReopenHistory  domain.ReopenHistory `db:"reopen_history"`
	CreatedAt      time.Time            `db:"created_at"`
	UpdatedAt      time.Time            `db:"updated_at"`
}

func (r questionRow) toDomain() domain.Question {
	q := domain.Question{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Topic:         r.Topic,
		StudentID:     r.StudentID,
		AssignedTo:    r.AssignedTo.String,
		Status:        r.Status,
		Resolution:    r.Resolution.String,
		Comments:      r.Comments,
		ReopenHistory: r.ReopenHistory,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	if q.Comments == nil {
		q.Comments = domain.Thread{}
	}

	if q.ReopenHistory == nil {
		q.ReopenHistory = domain.ReopenHistory{}
	}

	if r.RatingScore.Valid {
		q.Rating = &domain.Rating{
			Score:    int(r.RatingScore.Int32),
			Feedback: r.RatingFeedback.String,
			RatedAt:  r.RatedAt.Time,
		}
	}

	return q
}

type ratingColumns struct {
	score    sql.NullInt32
	feedback sql.NullString
	ratedAt  sql.NullTime
}

func ratingOf(q *domain.Question) ratingColumns {
	if q.Rating == nil {
		return ratingColumns{}
	}

	return ratingColumns{
		score:    sql.NullInt32{Int32: int32(q.Rating.Score), Valid: true},
		feedback: sql.NullString{String: q.Rating.Feedback, Valid: true},
		ratedAt:  sql.NullTime{Time: q.Rating.RatedAt, Valid: true},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	const op = "internal.repository.postgres.CreateQuestion"

	rating := ratingOf(q)

	query, args, err := r.sq.Insert(questionsTable).
		Columns(questionColumns...).
		Values(
			q.ID, q.Title, q.Description, q.Topic, q.StudentID, nullString(q.AssignedTo), q.Status,
			nullString(q.Resolution), rating.score, rating.feedback, rating.ratedAt,
			q.Comments, q.ReopenHistory, q.CreatedAt, q.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return apperrors.Conflict(fmt.Sprintf("question '%s' already exists", q.ID))
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	const op = "internal.repository.postgres.GetQuestionByID"

	query, args, err := r.sq.Select(questionColumns...).
		From(questionsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row questionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.QuestionNotFoundError{QuestionID: id}
		}

		return nil, fmt.Errorf("%s: failed to get question: %w", op, err)
	}

	q := row.toDomain()

	return &q, nil
}

func (r *QuestionRepository) SaveQuestion(ctx context.Context, q *domain.Question) error {
	const op = "internal.repository.postgres.SaveQuestion"

	rating := ratingOf(q)

	query, args, err := r.sq.Update(questionsTable).
		Set("assigned_to", nullString(q.AssignedTo)).
		Set("status", q.Status).
		Set("resolution", nullString(q.Resolution)).
		Set("rating_score", rating.score).
		Set("rating_feedback", rating.feedback).
		Set("rated_at", rating.ratedAt).
		Set("comments", q.Comments).
		Set("reopen_history", q.ReopenHistory).
		Set("updated_at", q.UpdatedAt).
		Where(sq.Eq{"id": q.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return &apperrors.QuestionNotFoundError{QuestionID: q.ID}
	}

	return nil
}

func (r *QuestionRepository) ListQuestions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	const op = "internal.repository.postgres.ListQuestions"
	log := r.log.With(slog.String("op", op))

	builder := r.sq.Select(questionColumns...).From(questionsTable)

	if filter.StudentID != "" {
		builder = builder.Where(sq.Eq{"student_id": filter.StudentID})
	}

	if filter.AssignedTo != "" {
		builder = builder.Where(sq.Eq{"assigned_to": filter.AssignedTo})
	}

	if filter.Unassigned {
		builder = builder.Where(sq.Eq{"assigned_to": nil})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}

		builder = builder.Where(sq.Eq{"status": statuses})
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = domain.SortByCreatedAt
	}

	query, args, err := builder.OrderBy(string(orderBy) + " DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	log.Debug("questions listed", slog.Int("count", len(rows)))

	questions := make([]domain.Question, len(rows))
	for i, row := range rows {
		questions[i] = row.toDomain()
	}

	return questions, nil
}
