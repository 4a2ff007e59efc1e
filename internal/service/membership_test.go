package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMembershipServiceImpl_RemoveStudents(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	courseID := int64(7)
	problemID := int64(1)

	course := &domain.Course{ID: courseID, Name: "Data Structures"}

	fullScore := func(account string, runTime float64) domain.Judge {
		return domain.Judge{
			ProblemID:      problemID,
			StudentAccount: account,
			HistoryCodes:   []domain.HistoryCode{{Score: domain.MaxScore, RunTime: runTime}},
		}
	}

	testCases := []struct {
		name            string
		accounts        []string
		setupMocks      func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock)
		expectedErrorIs error
		expectedError   bool
	}{
		{
			name:     "Best-code slot handed to next full-score submitter",
			accounts: []string{"s1"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectCommit()

				courses.On("GetByID", ctx, courseID).Return(course, nil).Once()
				db.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				problems.On("ListByCourse", ctx, mockedTx, courseID).
					Return([]domain.Problem{{ID: problemID, CourseID: courseID, BestStudentAccount: "s1"}}, nil).Once()
				students.On("GetByAccount", ctx, "s1").Return(&domain.Student{Account: "s1"}, nil).Once()
				judges.On("ListByProblem", ctx, mockedTx, problemID).Return([]domain.Judge{
					fullScore("s1", 10),
					fullScore("s4", 50),
					{
						ProblemID:      problemID,
						StudentAccount: "s3",
						HistoryCodes:   []domain.HistoryCode{{Score: 90, RunTime: 5}},
					},
				}, nil).Once()
				problems.On("SetBestStudent", ctx, mockedTx, problemID, "s4").Return(nil).Once()
				students.On("RemoveFromCourse", ctx, mockedTx, courseID, "s1").Return(nil).Once()
			},
		},
		{
			name:     "Best-code slot cleared when nobody qualifies",
			accounts: []string{"s1"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectCommit()

				courses.On("GetByID", ctx, courseID).Return(course, nil).Once()
				db.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				problems.On("ListByCourse", ctx, mockedTx, courseID).
					Return([]domain.Problem{{ID: problemID, CourseID: courseID, BestStudentAccount: "s1"}}, nil).Once()
				students.On("GetByAccount", ctx, "s1").Return(&domain.Student{Account: "s1"}, nil).Once()
				judges.On("ListByProblem", ctx, mockedTx, problemID).Return([]domain.Judge{
					fullScore("s1", 10),
					{
						ProblemID:      problemID,
						StudentAccount: "s3",
						HistoryCodes:   []domain.HistoryCode{{Score: 90, RunTime: 5}},
					},
				}, nil).Once()
				problems.On("SetBestStudent", ctx, mockedTx, problemID, "").Return(nil).Once()
				students.On("RemoveFromCourse", ctx, mockedTx, courseID, "s1").Return(nil).Once()
			},
		},
		{
			name:     "Runtime tie keeps the earlier record",
			accounts: []string{"s1"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectCommit()

				courses.On("GetByID", ctx, courseID).Return(course, nil).Once()
				db.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				problems.On("ListByCourse", ctx, mockedTx, courseID).
					Return([]domain.Problem{{ID: problemID, CourseID: courseID, BestStudentAccount: "s1"}}, nil).Once()
				students.On("GetByAccount", ctx, "s1").Return(&domain.Student{Account: "s1"}, nil).Once()
				judges.On("ListByProblem", ctx, mockedTx, problemID).Return([]domain.Judge{
					fullScore("s1", 10),
					fullScore("s4", 20),
					fullScore("s5", 20),
				}, nil).Once()
				problems.On("SetBestStudent", ctx, mockedTx, problemID, "s4").Return(nil).Once()
				students.On("RemoveFromCourse", ctx, mockedTx, courseID, "s1").Return(nil).Once()
			},
		},
		{
			name:     "Non-holder removal touches no best-code pointer",
			accounts: []string{"s2"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectCommit()

				courses.On("GetByID", ctx, courseID).Return(course, nil).Once()
				db.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				problems.On("ListByCourse", ctx, mockedTx, courseID).
					Return([]domain.Problem{{ID: problemID, CourseID: courseID, BestStudentAccount: "s1"}}, nil).Once()
				students.On("GetByAccount", ctx, "s2").Return(&domain.Student{Account: "s2"}, nil).Once()
				students.On("RemoveFromCourse", ctx, mockedTx, courseID, "s2").Return(nil).Once()
			},
		},
		{
			name:     "Failure - unknown student aborts the whole batch",
			accounts: []string{"s1", "ghost"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectRollback()

				courses.On("GetByID", ctx, courseID).Return(course, nil).Once()
				db.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				problems.On("ListByCourse", ctx, mockedTx, courseID).
					Return([]domain.Problem{{ID: problemID, CourseID: courseID, BestStudentAccount: ""}}, nil).Once()
				students.On("GetByAccount", ctx, "s1").Return(&domain.Student{Account: "s1"}, nil).Once()
				students.On("RemoveFromCourse", ctx, mockedTx, courseID, "s1").Return(nil).Once()
				students.On("GetByAccount", ctx, "ghost").
					Return(nil, &apperrors.StudentNotFoundError{Account: "ghost"}).Once()
			},
			expectedErrorIs: apperrors.ErrNotFound,
		},
		{
			name:     "Failure - course not found",
			accounts: []string{"s1"},
			setupMocks: func(db *DBMock, problems *ProblemRepositoryMock, students *StudentRepositoryMock, judges *JudgeRepositoryMock, courses *CourseRepositoryMock) {
				courses.On("GetByID", ctx, courseID).
					Return(nil, &apperrors.CourseNotFoundError{CourseID: courseID}).Once()
			},
			expectedErrorIs: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dbMock := new(DBMock)
			problemsMock := new(ProblemRepositoryMock)
			studentsMock := new(StudentRepositoryMock)
			judgesMock := new(JudgeRepositoryMock)
			coursesMock := new(CourseRepositoryMock)
			tc.setupMocks(dbMock, problemsMock, studentsMock, judgesMock, coursesMock)

			service := NewMembershipService(dbMock, logger, problemsMock, studentsMock, judgesMock, coursesMock)
			err := service.RemoveStudents(ctx, courseID, tc.accounts)

			if tc.expectedErrorIs != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErrorIs))
			} else if tc.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			dbMock.AssertExpectations(t)
			problemsMock.AssertExpectations(t)
			studentsMock.AssertExpectations(t)
			judgesMock.AssertExpectations(t)
			coursesMock.AssertExpectations(t)
		})
	}
}

func TestNextBestAccount(t *testing.T) {
	fullScore := func(account string, runTime float64) domain.Judge {
		return domain.Judge{
			StudentAccount: account,
			HistoryCodes:   []domain.HistoryCode{{Score: domain.MaxScore, RunTime: runTime}},
		}
	}

	t.Run("Latest attempt decides, not the best attempt", func(t *testing.T) {
		judges := []domain.Judge{
			{
				StudentAccount: "s2",
				HistoryCodes: []domain.HistoryCode{
					{Score: domain.MaxScore, RunTime: 1},
					{Score: 60, RunTime: 1},
				},
			},
			fullScore("s3", 99),
		}

		assert.Equal(t, "s3", nextBestAccount(judges, "s1"))
	})

	t.Run("Departing student is never a candidate", func(t *testing.T) {
		judges := []domain.Judge{fullScore("s1", 1)}

		assert.Equal(t, "", nextBestAccount(judges, "s1"))
	})

	t.Run("Empty history is skipped", func(t *testing.T) {
		judges := []domain.Judge{{StudentAccount: "s2"}}

		assert.Equal(t, "", nextBestAccount(judges, "s1"))
	})
}
