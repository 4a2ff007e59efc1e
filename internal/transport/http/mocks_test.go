package http

import (
	"context"

	"github.com/scu-oj/peer-review-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type CorrectionServiceMock struct {
	mock.Mock
}

func (m *CorrectionServiceMock) CreatePairs(ctx context.Context, problemID int64, pairs []api.Pair) error {
	args := m.Called(ctx, problemID, pairs)
	return args.Error(0)
}

func (m *CorrectionServiceMock) ListReviewTargets(ctx context.Context, problemID int64, account string) ([]api.ReviewTarget, error) {
	args := m.Called(ctx, problemID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.ReviewTarget), args.Error(1)
}

func (m *CorrectionServiceMock) IsReviewComplete(ctx context.Context, problemID int64, account string) (bool, error) {
	args := m.Called(ctx, problemID, account)
	return args.Bool(0), args.Error(1)
}

func (m *CorrectionServiceMock) HasBeenReviewed(ctx context.Context, problemID int64, account string) (bool, error) {
	args := m.Called(ctx, problemID, account)
	return args.Bool(0), args.Error(1)
}

func (m *CorrectionServiceMock) ReviewsGiven(ctx context.Context, problemID int64, account string) ([]api.ReviewGiven, error) {
	args := m.Called(ctx, problemID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.ReviewGiven), args.Error(1)
}

func (m *CorrectionServiceMock) ReviewsReceived(ctx context.Context, problemID int64, account string) ([]api.ReviewSummary, error) {
	args := m.Called(ctx, problemID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.ReviewSummary), args.Error(1)
}

func (m *CorrectionServiceMock) SubmitReview(ctx context.Context, problemID int64, reviewer string, reviews []api.ReviewSubmission) error {
	args := m.Called(ctx, problemID, reviewer, reviews)
	return args.Error(0)
}

func (m *CorrectionServiceMock) SummarizeDiscussion(ctx context.Context, problemID int64) ([]api.DiscussSummary, error) {
	args := m.Called(ctx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.DiscussSummary), args.Error(1)
}

type MembershipServiceMock struct {
	mock.Mock
}

func (m *MembershipServiceMock) RemoveStudents(ctx context.Context, courseID int64, accounts []string) error {
	args := m.Called(ctx, courseID, accounts)
	return args.Error(0)
}
