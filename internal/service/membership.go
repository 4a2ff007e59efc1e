package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/scu-oj/peer-review-service/internal/domain"
	"github.com/scu-oj/peer-review-service/internal/repository"
)

// MembershipService removes students from a course while keeping the
// per-problem best-code pointers consistent: a departing student's best-code
// slots are handed to the next eligible submitter before the membership link
// is deleted.
type MembershipService interface {
	// RemoveStudents removes the accounts from the course, all-or-nothing.
	RemoveStudents(ctx context.Context, courseID int64, accounts []string) error
}

type MembershipServiceImpl struct {
	BaseService
	problems repository.ProblemRepository
	students repository.StudentRepository
	judges   repository.JudgeRepository
	courses  repository.CourseRepository
}

func NewMembershipService(
	db DB,
	log *slog.Logger,
	problems repository.ProblemRepository,
	students repository.StudentRepository,
	judges repository.JudgeRepository,
	courses repository.CourseRepository,
) *MembershipServiceImpl {
	return &MembershipServiceImpl{
		BaseService: NewBaseService(db, log),
		problems:    problems,
		students:    students,
		judges:      judges,
		courses:     courses,
	}
}

func (s *MembershipServiceImpl) RemoveStudents(ctx context.Context, courseID int64, accounts []string) error {
	const op = "internal.service.RemoveStudents"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("course_id", courseID),
	)

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return fmt.Errorf("%s: failed to get course: %w", op, err)
	}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		problems, err := s.problems.ListByCourse(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("%s: failed to list problems: %w", op, err)
		}

		for _, account := range accounts {
			if _, err := s.students.GetByAccount(ctx, account); err != nil {
				return fmt.Errorf("%s: failed to get student: %w", op, err)
			}

			for i := range problems {
				if problems[i].BestStudentAccount != account {
					continue
				}

				judges, err := s.judges.ListByProblem(ctx, tx, problems[i].ID)
				if err != nil {
					return fmt.Errorf("%s: failed to list judges: %w", op, err)
				}

				best := nextBestAccount(judges, account)

				if err := s.problems.SetBestStudent(ctx, tx, problems[i].ID, best); err != nil {
					return fmt.Errorf("%s: failed to set best student: %w", op, err)
				}

				problems[i].BestStudentAccount = best
			}

			if err := s.students.RemoveFromCourse(ctx, tx, courseID, account); err != nil {
				return fmt.Errorf("%s: failed to remove student from course: %w", op, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("students removed", slog.Int("students", len(accounts)))

	return nil
}

// nextBestAccount picks the replacement best-code holder: among everyone but
// the departing student, a full-score latest submission with the lowest
// runtime wins, earlier record on ties. Empty when nobody qualifies.
func nextBestAccount(judges []domain.Judge, departing string) string {
	bestRunTime := math.MaxFloat64
	bestAccount := ""

	for i := range judges {
		if judges[i].StudentAccount == departing {
			continue
		}

		latest := judges[i].Latest()
		if latest == nil || latest.Score != domain.MaxScore {
			continue
		}

		if latest.RunTime < bestRunTime {
			bestRunTime = latest.RunTime
			bestAccount = judges[i].StudentAccount
		}
	}

	return bestAccount
}
