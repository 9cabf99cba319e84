package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ur *UserRepository) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	const op = "internal.repository.postgres.GetProfilesByIDs"

	if len(ids) == 0 {
		return map[string]domain.Profile{}, nil
	}

	query, args, err := ur.sq.Select("id", "name", "email").
		From("users").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var profiles []domain.Profile
	if err := ur.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	if len(profiles) < len(ids) {
		ur.log.Debug("some profiles are unknown", slog.String("op", op), slog.Int("requested", len(ids)), slog.Int("found", len(profiles)))
	}

	result := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		result[p.ID] = p
	}

	return result, nil
}

// CreateUser upserts an account row. The account store proper is external;
// this exists for seeding and tests.
func (ur *UserRepository) CreateUser(ctx context.Context, u domain.User) error {
	const op = "internal.repository.postgres.CreateUser"

	query, args, err := ur.sq.Insert("users").
		Columns("id", "name", "email", "role").
		Values(u.ID, u.Name, u.Email, u.Role).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := ur.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}
