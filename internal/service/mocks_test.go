package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/domain"
	"github.com/scu-oj/peer-review-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type DBMock struct {
	mock.Mock
	sqlx.ExtContext
}

var _ DB = (*DBMock)(nil)

func (m *DBMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type TeamRepositoryMock struct {
	mock.Mock
}

var _ repository.TeamRepository = (*TeamRepositoryMock)(nil)

func (m *TeamRepositoryMock) CreatePairs(ctx context.Context, tx *sqlx.Tx, problemID int64, pairs []domain.Pair) error {
	args := m.Called(ctx, tx, problemID, pairs)
	return args.Error(0)
}

func (m *TeamRepositoryMock) GetByProblemAndAccount(ctx context.Context, ext sqlx.ExtContext, problemID int64, account string) (*domain.Team, error) {
	args := m.Called(ctx, ext, problemID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) Exists(ctx context.Context, problemID int64, account string) (bool, error) {
	args := m.Called(ctx, problemID, account)
	return args.Bool(0), args.Error(1)
}

func (m *TeamRepositoryMock) ListByProblem(ctx context.Context, problemID int64) ([]domain.Team, error) {
	args := m.Called(ctx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) AppendCommentResult(ctx context.Context, tx *sqlx.Tx, problemID int64, account string, result domain.CommentResult) error {
	args := m.Called(ctx, tx, problemID, account, result)
	return args.Error(0)
}

type JudgeRepositoryMock struct {
	mock.Mock
}

var _ repository.JudgeRepository = (*JudgeRepositoryMock)(nil)

func (m *JudgeRepositoryMock) Latest(ctx context.Context, problemID int64, account string) (*domain.HistoryCode, error) {
	args := m.Called(ctx, problemID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.HistoryCode), args.Error(1)
}

func (m *JudgeRepositoryMock) Exists(ctx context.Context, problemID int64, account string) (bool, error) {
	args := m.Called(ctx, problemID, account)
	return args.Bool(0), args.Error(1)
}

func (m *JudgeRepositoryMock) ListByProblem(ctx context.Context, tx *sqlx.Tx, problemID int64) ([]domain.Judge, error) {
	args := m.Called(ctx, tx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Judge), args.Error(1)
}

type ProblemRepositoryMock struct {
	mock.Mock
}

var _ repository.ProblemRepository = (*ProblemRepositoryMock)(nil)

func (m *ProblemRepositoryMock) GetByID(ctx context.Context, problemID int64) (*domain.Problem, error) {
	args := m.Called(ctx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

func (m *ProblemRepositoryMock) ListByCourse(ctx context.Context, tx *sqlx.Tx, courseID int64) ([]domain.Problem, error) {
	args := m.Called(ctx, tx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Problem), args.Error(1)
}

func (m *ProblemRepositoryMock) SetBestStudent(ctx context.Context, tx *sqlx.Tx, problemID int64, account string) error {
	args := m.Called(ctx, tx, problemID, account)
	return args.Error(0)
}

type StudentRepositoryMock struct {
	mock.Mock
}

var _ repository.StudentRepository = (*StudentRepositoryMock)(nil)

func (m *StudentRepositoryMock) GetByAccount(ctx context.Context, account string) (*domain.Student, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *StudentRepositoryMock) RemoveFromCourse(ctx context.Context, tx *sqlx.Tx, courseID int64, account string) error {
	args := m.Called(ctx, tx, courseID, account)
	return args.Error(0)
}

type CourseRepositoryMock struct {
	mock.Mock
}

var _ repository.CourseRepository = (*CourseRepositoryMock)(nil)

func (m *CourseRepositoryMock) GetByID(ctx context.Context, courseID int64) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Course), args.Error(1)
}
