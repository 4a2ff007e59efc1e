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

type CourseRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewCourseRepository(db *sqlx.DB, log *slog.Logger) *CourseRepository {
	return &CourseRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (cr *CourseRepository) GetByID(ctx context.Context, courseID int64) (*domain.Course, error) {
	const op = "internal.repository.postgres.GetCourseByID"

	query, args, err := cr.sq.Select("id", "name", "semester").
		From("courses").
		Where(sq.Eq{"id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var course domain.Course
	if err := cr.db.GetContext(ctx, &course, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.CourseNotFoundError{CourseID: courseID}
		}

		return nil, fmt.Errorf("%s: failed to get course: %w", op, err)
	}

	return &course, nil
}
