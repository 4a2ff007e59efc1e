// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/domain"
)

// TeamRepository is the pairing registry: one record per (problem, account).
type TeamRepository interface {
	// CreatePairs creates one Team per reviewer with its corrected-accounts
	// list and an empty review inbox. Re-running for a problem overwrites the
	// pairing metadata but never discards already-collected reviews.
	// This method is intended to be run within a transaction.
	CreatePairs(ctx context.Context, tx *sqlx.Tx, problemID int64, pairs []domain.Pair) error

	// GetByProblemAndAccount retrieves the Team for a (problem, account).
	// The ext argument allows this method to be executed within a transaction
	// (*sqlx.Tx) or directly on a DB connection (*sqlx.DB).
	// It returns apperrors.TeamNotFoundError if the pairing is absent.
	GetByProblemAndAccount(ctx context.Context, ext sqlx.ExtContext, problemID int64, account string) (*domain.Team, error)

	// Exists reports whether a pairing exists; it never fails on absence.
	Exists(ctx context.Context, problemID int64, account string) (bool, error)

	// ListByProblem returns every Team for a problem, storage order.
	ListByProblem(ctx context.Context, problemID int64) ([]domain.Team, error)

	// AppendCommentResult atomically appends one review to the inbox of the
	// (problem, account) Team. Concurrent appends to the same Team must both
	// land. It returns apperrors.TeamNotFoundError if the pairing is absent.
	AppendCommentResult(ctx context.Context, tx *sqlx.Tx, problemID int64, account string, result domain.CommentResult) error
}

// JudgeRepository is the read-only view of the submission ledger. The
// correction core never writes submissions.
type JudgeRepository interface {
	// Latest returns the last element of the student's submission history.
	// It returns apperrors.ErrNotFound when the student never submitted.
	Latest(ctx context.Context, problemID int64, account string) (*domain.HistoryCode, error)

	// Exists reports whether the student has at least one submission.
	Exists(ctx context.Context, problemID int64, account string) (bool, error)

	// ListByProblem returns every Judge record for a problem with its full
	// history. Intended for the reconciler's in-transaction scan.
	ListByProblem(ctx context.Context, tx *sqlx.Tx, problemID int64) ([]domain.Judge, error)
}

type ProblemRepository interface {
	// GetByID returns apperrors.ProblemNotFoundError when absent.
	GetByID(ctx context.Context, problemID int64) (*domain.Problem, error)

	// ListByCourse returns all problems of a course, locked for update so the
	// reconciler can rewrite best-code pointers without racing.
	ListByCourse(ctx context.Context, tx *sqlx.Tx, courseID int64) ([]domain.Problem, error)

	// SetBestStudent rewrites the best-code pointer; empty account clears it.
	SetBestStudent(ctx context.Context, tx *sqlx.Tx, problemID int64, account string) error
}

type StudentRepository interface {
	// GetByAccount returns apperrors.StudentNotFoundError when absent.
	GetByAccount(ctx context.Context, account string) (*domain.Student, error)

	// RemoveFromCourse deletes the course membership link. Removing a student
	// who is not enrolled is not an error.
	RemoveFromCourse(ctx context.Context, tx *sqlx.Tx, courseID int64, account string) error
}

type CourseRepository interface {
	// GetByID returns apperrors.CourseNotFoundError when absent.
	GetByID(ctx context.Context, courseID int64) (*domain.Course, error)
}
