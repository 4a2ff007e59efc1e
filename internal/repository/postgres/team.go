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
	"github.com/lib/pq"
	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/domain"
)

type TeamRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTeamRepository(db *sqlx.DB, log *slog.Logger) *TeamRepository {
	return &TeamRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// teamRow is the raw table shape; corrected_accounts is a text[] and
// comment_results a jsonb array.
type teamRow struct {
	ID                int64          `db:"id"`
	ProblemID         int64          `db:"problem_id"`
	Account           string         `db:"account"`
	CorrectedAccounts pq.StringArray `db:"corrected_accounts"`
	CommentResults    []byte         `db:"comment_results"`
}

func (r teamRow) toDomain() (*domain.Team, error) {
	team := &domain.Team{
		ID:                r.ID,
		ProblemID:         r.ProblemID,
		Account:           r.Account,
		CorrectedAccounts: []string(r.CorrectedAccounts),
	}

	if len(r.CommentResults) > 0 {
		if err := json.Unmarshal(r.CommentResults, &team.CommentResults); err != nil {
			return nil, fmt.Errorf("failed to decode comment results: %w", err)
		}
	}

	return team, nil
}

func (tr *TeamRepository) CreatePairs(ctx context.Context, tx *sqlx.Tx, problemID int64, pairs []domain.Pair) error {
	const op = "internal.repository.postgres.CreatePairs"
	log := tr.log.With(slog.String("op", op), slog.Int64("problem_id", problemID))
	log.Info("creating pairing records", slog.Int("pairs", len(pairs)))

	insertBuilder := tr.sq.Insert("teams").
		Columns("problem_id", "account", "corrected_accounts")

	for _, pair := range pairs {
		insertBuilder = insertBuilder.Values(problemID, pair.Account, pq.Array(pair.CorrectedAccounts))
	}

	// Re-pairing a problem replaces reviewer obligations but must never
	// silently discard reviews already collected in comment_results.
	query, args, err := insertBuilder.Suffix(`
        ON CONFLICT (problem_id, account) DO UPDATE SET
            corrected_accounts = EXCLUDED.corrected_accounts`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build bulk teams upsert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return &apperrors.ProblemNotFoundError{ProblemID: problemID}
		}

		return fmt.Errorf("%s: failed to execute bulk teams upsert: %w", op, err)
	}

	return nil
}

func (tr *TeamRepository) GetByProblemAndAccount(ctx context.Context, ext sqlx.ExtContext, problemID int64, account string) (*domain.Team, error) {
	const op = "internal.repository.postgres.GetByProblemAndAccount"

	query, args, err := tr.sq.Select("id", "problem_id", "account", "corrected_accounts", "comment_results").
		From("teams").
		Where(sq.Eq{"problem_id": problemID, "account": account}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row teamRow
	if err := sqlx.GetContext(ctx, ext, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.TeamNotFoundError{ProblemID: problemID, Account: account}
		}

		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	team, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (tr *TeamRepository) Exists(ctx context.Context, problemID int64, account string) (bool, error) {
	const op = "internal.repository.postgres.TeamExists"

	query, args, err := tr.sq.Select("1").
		From("teams").
		Where(sq.Eq{"problem_id": problemID, "account": account}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var one int
	if err := tr.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return true, nil
}

func (tr *TeamRepository) ListByProblem(ctx context.Context, problemID int64) ([]domain.Team, error) {
	const op = "internal.repository.postgres.ListTeamsByProblem"

	query, args, err := tr.sq.Select("id", "problem_id", "account", "corrected_accounts", "comment_results").
		From("teams").
		Where(sq.Eq{"problem_id": problemID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []teamRow
	if err := tr.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select teams: %w", op, err)
	}

	teams := make([]domain.Team, 0, len(rows))

	for _, row := range rows {
		team, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		teams = append(teams, *team)
	}

	return teams, nil
}

func (tr *TeamRepository) AppendCommentResult(ctx context.Context, tx *sqlx.Tx, problemID int64, account string, result domain.CommentResult) error {
	const op = "internal.repository.postgres.AppendCommentResult"

	payload, err := json.Marshal([]domain.CommentResult{result})
	if err != nil {
		return fmt.Errorf("%s: failed to encode comment result: %w", op, err)
	}

	// Single-statement jsonb concat so two concurrent submissions against the
	// same team cannot lose an entry.
	query, args, err := tr.sq.Update("teams").
		Set("comment_results", sq.Expr("comment_results || ?::jsonb", payload)).
		Where(sq.Eq{"problem_id": problemID, "account": account}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return &apperrors.TeamNotFoundError{ProblemID: problemID, Account: account}
	}

	return nil
}
