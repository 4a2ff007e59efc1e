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

type ProblemRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewProblemRepository(db *sqlx.DB, log *slog.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (pr *ProblemRepository) GetByID(ctx context.Context, problemID int64) (*domain.Problem, error) {
	const op = "internal.repository.postgres.GetProblemByID"

	query, args, err := pr.sq.Select("id", "course_id", "name", "best_student_account").
		From("problems").
		Where(sq.Eq{"id": problemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var problem domain.Problem
	if err := pr.db.GetContext(ctx, &problem, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.ProblemNotFoundError{ProblemID: problemID}
		}

		return nil, fmt.Errorf("%s: failed to get problem: %w", op, err)
	}

	return &problem, nil
}

func (pr *ProblemRepository) ListByCourse(ctx context.Context, tx *sqlx.Tx, courseID int64) ([]domain.Problem, error) {
	const op = "internal.repository.postgres.ListProblemsByCourse"

	// FOR UPDATE: the reconciler rewrites best_student_account on these rows
	// within the same transaction.
	query, args, err := pr.sq.Select("id", "course_id", "name", "best_student_account").
		From("problems").
		Where(sq.Eq{"course_id": courseID}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var problems []domain.Problem
	if err := tx.SelectContext(ctx, &problems, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select problems: %w", op, err)
	}

	return problems, nil
}

func (pr *ProblemRepository) SetBestStudent(ctx context.Context, tx *sqlx.Tx, problemID int64, account string) error {
	const op = "internal.repository.postgres.SetBestStudent"

	query, args, err := pr.sq.Update("problems").
		Set("best_student_account", account).
		Where(sq.Eq{"id": problemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return &apperrors.ProblemNotFoundError{ProblemID: problemID}
	}

	return nil
}
