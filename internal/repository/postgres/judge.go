package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/domain"
)

// JudgeRepository reads the submission ledger. The judging subsystem owns the
// writes; the correction core only ever projects the latest history element.
type JudgeRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewJudgeRepository(db *sqlx.DB, log *slog.Logger) *JudgeRepository {
	return &JudgeRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type judgeRow struct {
	ID             int64  `db:"id"`
	ProblemID      int64  `db:"problem_id"`
	StudentAccount string `db:"student_account"`
	HistoryCodes   []byte `db:"history_codes"`
}

func (r judgeRow) toDomain() (*domain.Judge, error) {
	judge := &domain.Judge{
		ID:             r.ID,
		ProblemID:      r.ProblemID,
		StudentAccount: r.StudentAccount,
	}

	if len(r.HistoryCodes) > 0 {
		if err := json.Unmarshal(r.HistoryCodes, &judge.HistoryCodes); err != nil {
			return nil, fmt.Errorf("failed to decode history codes: %w", err)
		}
	}

	return judge, nil
}

func (jr *JudgeRepository) Latest(ctx context.Context, problemID int64, account string) (*domain.HistoryCode, error) {
	const op = "internal.repository.postgres.LatestSubmission"

	// The last array element is the current submission; history is never
	// mutated in place.
	query, args, err := jr.sq.Select("history_codes -> -1").
		From("judges").
		Where(sq.Eq{"problem_id": problemID, "student_account": account}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var raw []byte
	if err := jr.db.GetContext(ctx, &raw, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no submission by '%s' on problem '%d'", apperrors.ErrNotFound, account, problemID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: no submission by '%s' on problem '%d'", apperrors.ErrNotFound, account, problemID)
	}

	var latest domain.HistoryCode
	if err := json.Unmarshal(raw, &latest); err != nil {
		return nil, fmt.Errorf("%s: failed to decode submission: %w", op, err)
	}

	return &latest, nil
}

func (jr *JudgeRepository) Exists(ctx context.Context, problemID int64, account string) (bool, error) {
	const op = "internal.repository.postgres.JudgeExists"

	query, args, err := jr.sq.Select("1").
		From("judges").
		Where(sq.Eq{"problem_id": problemID, "student_account": account}).
		Where("jsonb_array_length(history_codes) > 0").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var one int
	if err := jr.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return true, nil
}

func (jr *JudgeRepository) ListByProblem(ctx context.Context, tx *sqlx.Tx, problemID int64) ([]domain.Judge, error) {
	const op = "internal.repository.postgres.ListJudgesByProblem"

	query, args, err := jr.sq.Select("id", "problem_id", "student_account", "history_codes").
		From("judges").
		Where(sq.Eq{"problem_id": problemID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []judgeRow
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select judges: %w", op, err)
	}

	judges := make([]domain.Judge, 0, len(rows))

	for _, row := range rows {
		judge, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		judges = append(judges, *judge)
	}

	return judges, nil
}
