package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/domain"
	"github.com/scu-oj/peer-review-service/internal/repository"
	"github.com/scu-oj/peer-review-service/pkg/api"
)

// CorrectionService implements the peer-correction workflow: pairing students
// into reviewer/reviewee teams, collecting reviews and exposing both sides of
// the exchange.
type CorrectionService interface {
	// CreatePairs installs the pairing table for a problem. Re-running replaces
	// the assignments but keeps every review already collected.
	CreatePairs(ctx context.Context, problemID int64, pairs []api.Pair) error

	// ListReviewTargets returns the caller's assigned reviewees with their
	// current code. Reviewees without a submission are skipped.
	ListReviewTargets(ctx context.Context, problemID int64, account string) ([]api.ReviewTarget, error)

	// IsReviewComplete reports whether the caller has reviewed every assigned
	// reviewee that has a submission.
	IsReviewComplete(ctx context.Context, problemID int64, account string) (bool, error)

	// HasBeenReviewed reports whether the caller has received at least one
	// review.
	HasBeenReviewed(ctx context.Context, problemID int64, account string) (bool, error)

	// ReviewsGiven returns every review the caller authored, each paired with
	// the reviewee's current code.
	ReviewsGiven(ctx context.Context, problemID int64, account string) ([]api.ReviewGiven, error)

	// ReviewsReceived returns the reviews in the caller's inbox, reviewer
	// identities stripped. A caller without a pairing gets an empty list.
	ReviewsReceived(ctx context.Context, problemID int64, account string) ([]api.ReviewSummary, error)

	// SubmitReview appends the reviewer's batch of reviews to the reviewees'
	// inboxes, all-or-nothing.
	SubmitReview(ctx context.Context, problemID int64, reviewer string, reviews []api.ReviewSubmission) error

	// SummarizeDiscussion builds the instructor view: one row per paired
	// student with their latest score and full review inbox.
	SummarizeDiscussion(ctx context.Context, problemID int64) ([]api.DiscussSummary, error)
}

type CorrectionServiceImpl struct {
	BaseService
	teams    repository.TeamRepository
	judges   repository.JudgeRepository
	students repository.StudentRepository
	problems repository.ProblemRepository
	courses  repository.CourseRepository
}

func NewCorrectionService(
	db DB,
	log *slog.Logger,
	teams repository.TeamRepository,
	judges repository.JudgeRepository,
	students repository.StudentRepository,
	problems repository.ProblemRepository,
	courses repository.CourseRepository,
) *CorrectionServiceImpl {
	return &CorrectionServiceImpl{
		BaseService: NewBaseService(db, log),
		teams:       teams,
		judges:      judges,
		students:    students,
		problems:    problems,
		courses:     courses,
	}
}

func (s *CorrectionServiceImpl) CreatePairs(ctx context.Context, problemID int64, pairs []api.Pair) error {
	const op = "internal.service.CreatePairs"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("problem_id", problemID),
	)

	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		return fmt.Errorf("%s: failed to get problem: %w", op, err)
	}

	domainPairs := make([]domain.Pair, 0, len(pairs))
	for _, pair := range pairs {
		domainPairs = append(domainPairs, domain.Pair{
			Account:           pair.Account,
			CorrectedAccounts: pair.CorrectedAccounts,
		})
	}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.teams.CreatePairs(ctx, tx, problemID, domainPairs); err != nil {
			return fmt.Errorf("%s: failed to create pairs: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("pairing created", slog.Int("pairs", len(pairs)))

	return nil
}

func (s *CorrectionServiceImpl) ListReviewTargets(ctx context.Context, problemID int64, account string) ([]api.ReviewTarget, error) {
	const op = "internal.service.ListReviewTargets"

	team, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, account)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	targets := make([]api.ReviewTarget, 0, len(team.CorrectedAccounts))

	for _, corrected := range team.CorrectedAccounts {
		latest, err := s.judges.Latest(ctx, problemID, corrected)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to get latest submission: %w", op, err)
		}

		targets = append(targets, api.ReviewTarget{
			StudentAccount: corrected,
			Code:           latest.Code,
		})
	}

	return targets, nil
}

func (s *CorrectionServiceImpl) IsReviewComplete(ctx context.Context, problemID int64, account string) (bool, error) {
	const op = "internal.service.IsReviewComplete"

	team, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, account)
	if err != nil {
		return false, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	for _, corrected := range team.CorrectedAccounts {
		submitted, err := s.judges.Exists(ctx, problemID, corrected)
		if err != nil {
			return false, fmt.Errorf("%s: failed to check submission: %w", op, err)
		}

		// a reviewee who never submitted is not reviewable, so they do not
		// count against completeness
		if !submitted {
			continue
		}

		correctedTeam, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, corrected)
		if err != nil {
			return false, fmt.Errorf("%s: failed to get corrected team: %w", op, err)
		}

		if !hasReviewBy(correctedTeam.CommentResults, account) {
			return false, nil
		}
	}

	return true, nil
}

func (s *CorrectionServiceImpl) HasBeenReviewed(ctx context.Context, problemID int64, account string) (bool, error) {
	const op = "internal.service.HasBeenReviewed"

	team, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, account)
	if err != nil {
		return false, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	return len(team.CommentResults) > 0, nil
}

func (s *CorrectionServiceImpl) ReviewsGiven(ctx context.Context, problemID int64, account string) ([]api.ReviewGiven, error) {
	const op = "internal.service.ReviewsGiven"

	team, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, account)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	given := make([]api.ReviewGiven, 0, len(team.CorrectedAccounts))

	for _, corrected := range team.CorrectedAccounts {
		correctedTeam, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, corrected)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get corrected team: %w", op, err)
		}

		var authored []domain.CommentResult

		for _, result := range correctedTeam.CommentResults {
			if result.Account == account {
				authored = append(authored, result)
			}
		}

		if len(authored) == 0 {
			continue
		}

		latest, err := s.judges.Latest(ctx, problemID, corrected)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get latest submission: %w", op, err)
		}

		for _, result := range authored {
			given = append(given, api.ReviewGiven{
				StudentAccount: corrected,
				Code:           latest.Code,
				CorrectValue:   toAPIScore(result.CorrectValue),
				ReadValue:      toAPIScore(result.ReadValue),
				SkillValue:     toAPIScore(result.SkillValue),
				CompleteValue:  toAPIScore(result.CompleteValue),
				WholeValue:     toAPIScore(result.WholeValue),
				Comment:        result.Comment,
			})
		}
	}

	return given, nil
}

func (s *CorrectionServiceImpl) ReviewsReceived(ctx context.Context, problemID int64, account string) ([]api.ReviewSummary, error) {
	const op = "internal.service.ReviewsReceived"

	exists, err := s.teams.Exists(ctx, problemID, account)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check team: %w", op, err)
	}

	if !exists {
		return []api.ReviewSummary{}, nil
	}

	team, err := s.teams.GetByProblemAndAccount(ctx, s.db, problemID, account)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	received := make([]api.ReviewSummary, 0, len(team.CommentResults))

	for _, result := range team.CommentResults {
		received = append(received, api.ReviewSummary{
			CorrectValue:  toAPIScore(result.CorrectValue),
			ReadValue:     toAPIScore(result.ReadValue),
			SkillValue:    toAPIScore(result.SkillValue),
			CompleteValue: toAPIScore(result.CompleteValue),
			WholeValue:    toAPIScore(result.WholeValue),
			Comment:       result.Comment,
		})
	}

	return received, nil
}

func (s *CorrectionServiceImpl) SubmitReview(ctx context.Context, problemID int64, reviewer string, reviews []api.ReviewSubmission) error {
	const op = "internal.service.SubmitReview"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("problem_id", problemID),
		slog.String("reviewer", reviewer),
	)

	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		return fmt.Errorf("%s: failed to get problem: %w", op, err)
	}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		for _, review := range reviews {
			result := domain.CommentResult{
				Account:       reviewer,
				CorrectValue:  toDomainScore(review.CorrectValue),
				ReadValue:     toDomainScore(review.ReadValue),
				SkillValue:    toDomainScore(review.SkillValue),
				CompleteValue: toDomainScore(review.CompleteValue),
				WholeValue:    toDomainScore(review.WholeValue),
				Comment:       review.Comment,
			}

			if err := s.teams.AppendCommentResult(ctx, tx, problemID, review.CorrectedAccount, result); err != nil {
				return fmt.Errorf("%s: failed to append review: %w", op, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("reviews submitted", slog.Int("reviews", len(reviews)))

	return nil
}

func (s *CorrectionServiceImpl) SummarizeDiscussion(ctx context.Context, problemID int64) ([]api.DiscussSummary, error) {
	const op = "internal.service.SummarizeDiscussion"

	problem, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get problem: %w", op, err)
	}

	course, err := s.courses.GetByID(ctx, problem.CourseID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get course: %w", op, err)
	}

	teams, err := s.teams.ListByProblem(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list teams: %w", op, err)
	}

	summaries := make([]api.DiscussSummary, 0, len(teams))

	for _, team := range teams {
		student, err := s.students.GetByAccount(ctx, team.Account)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get student: %w", op, err)
		}

		score := domain.NoSubmissionScore

		latest, err := s.judges.Latest(ctx, problemID, team.Account)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s: failed to get latest submission: %w", op, err)
		}
		if latest != nil {
			score = strconv.FormatFloat(latest.Score, 'f', -1, 64)
		}

		discussed := make([]api.ReceivedComment, 0, len(team.CommentResults))
		for _, result := range team.CommentResults {
			discussed = append(discussed, api.ReceivedComment{
				StudentAccount: result.Account,
				CorrectValue:   toAPIScore(result.CorrectValue),
				ReadValue:      toAPIScore(result.ReadValue),
				SkillValue:     toAPIScore(result.SkillValue),
				CompleteValue:  toAPIScore(result.CompleteValue),
				WholeValue:     toAPIScore(result.WholeValue),
				Comment:        result.Comment,
			})
		}

		summaries = append(summaries, api.DiscussSummary{
			Account:        team.Account,
			Name:           student.Name,
			StudentClass:   student.Class,
			CourseName:     course.Name,
			Score:          score,
			DiscussedScore: discussed,
		})
	}

	return summaries, nil
}

func hasReviewBy(results []domain.CommentResult, account string) bool {
	for _, result := range results {
		if result.Account == account {
			return true
		}
	}

	return false
}

func toAPIScore(v domain.ScoreValue) api.ScoreValue {
	return api.ScoreValue{
		Score:   v.Score,
		Comment: v.Comment,
	}
}

func toDomainScore(v api.ScoreValue) domain.ScoreValue {
	return domain.ScoreValue{
		Score:   v.Score,
		Comment: v.Comment,
	}
}
