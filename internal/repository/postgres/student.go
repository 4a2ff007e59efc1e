package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/domain"
)

type StudentRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewStudentRepository(db *sqlx.DB, log *slog.Logger) *StudentRepository {
	return &StudentRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (sr *StudentRepository) GetByAccount(ctx context.Context, account string) (*domain.Student, error) {
	const op = "internal.repository.postgres.GetStudentByAccount"

	query, args, err := sr.sq.Select("account", "name", "class").
		From("students").
		Where(sq.Eq{"account": account}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var student domain.Student
	if err := sr.db.GetContext(ctx, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.StudentNotFoundError{Account: account}
		}

		return nil, fmt.Errorf("%s: failed to get student: %w", op, err)
	}

	return &student, nil
}

func (sr *StudentRepository) RemoveFromCourse(ctx context.Context, tx *sqlx.Tx, courseID int64, account string) error {
	const op = "internal.repository.postgres.RemoveStudentFromCourse"

	query, args, err := sr.sq.Delete("course_students").
		Where(sq.Eq{"course_id": courseID, "account": account}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	return nil
}
