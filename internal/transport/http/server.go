// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses in the Message envelope the frontend expects.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scu-oj/peer-review-service/internal/apperrors"
	"github.com/scu-oj/peer-review-service/internal/service"
	"github.com/scu-oj/peer-review-service/internal/validation"
	"github.com/scu-oj/peer-review-service/pkg/api"
	"github.com/scu-oj/peer-review-service/pkg/logger/sl"
)

// accountHeader carries the caller's account. The session layer in front of
// this service authenticates students and forwards their identity here.
const accountHeader = "X-Account"

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log               *slog.Logger
	correctionService service.CorrectionService
	membershipService service.MembershipService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	cs service.CorrectionService,
	ms service.MembershipService,
) *Server {
	return &Server{
		log:               log,
		correctionService: cs,
		membershipService: ms,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api/team", func(r chi.Router) {
		r.Post("/createTeam", s.PostCreateTeam)
		r.Get("/correctStuds", s.GetCorrectStuds)
		r.Get("/checkCorrectStatus", s.GetCheckCorrectStatus)
		r.Get("/checkCorrectedStatus", s.GetCheckCorrectedStatus)
		r.Get("/correctInfo", s.GetCorrectInfo)
		r.Get("/correctedInfo", s.GetCorrectedInfo)
		r.Post("/submitCorrect", s.PostSubmitCorrect)
		r.Get("/discussScore", s.GetDiscussScore)
	})

	mux.Route("/api/course", func(r chi.Router) {
		r.Post("/deleteStudents", s.PostDeleteStudents)
	})

	return mux
}

func (s *Server) PostCreateTeam(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostCreateTeam"

	var req createTeamRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, api.CodeCreateTeamError, err)
		return
	}

	problemID, err := parseID(req.ProblemID)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCreateTeamError, err)
		return
	}

	pairs := make([]api.Pair, len(req.Pairs))
	for i, p := range req.Pairs {
		pairs[i] = api.Pair{
			Account:           p.Account,
			CorrectedAccounts: p.CorrectedAccounts,
		}
	}

	if err := s.correctionService.CreatePairs(r.Context(), problemID, pairs); err != nil {
		s.handleServiceError(w, op, api.CodeCreateTeamError, err)
		return
	}

	s.respondSuccess(w, nil)
}

func (s *Server) GetCorrectStuds(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCorrectStuds"

	problemID, account, err := s.callerParams(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectStudsError, err)
		return
	}

	targets, err := s.correctionService.ListReviewTargets(r.Context(), problemID, account)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectStudsError, err)
		return
	}

	s.respondSuccess(w, targets)
}

func (s *Server) GetCheckCorrectStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCheckCorrectStatus"

	problemID, account, err := s.callerParams(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCheckCorrectStatusError, err)
		return
	}

	complete, err := s.correctionService.IsReviewComplete(r.Context(), problemID, account)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCheckCorrectStatusError, err)
		return
	}

	s.respondSuccess(w, api.CorrectStatus{Status: complete})
}

func (s *Server) GetCheckCorrectedStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCheckCorrectedStatus"

	problemID, account, err := s.callerParams(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCheckCorrectedStatusError, err)
		return
	}

	reviewed, err := s.correctionService.HasBeenReviewed(r.Context(), problemID, account)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCheckCorrectedStatusError, err)
		return
	}

	s.respondSuccess(w, api.CorrectStatus{Status: reviewed})
}

func (s *Server) GetCorrectInfo(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCorrectInfo"

	problemID, account, err := s.callerParams(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectInfoError, err)
		return
	}

	given, err := s.correctionService.ReviewsGiven(r.Context(), problemID, account)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectInfoError, err)
		return
	}

	s.respondSuccess(w, given)
}

func (s *Server) GetCorrectedInfo(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCorrectedInfo"

	problemID, account, err := s.callerParams(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectedInfoError, err)
		return
	}

	received, err := s.correctionService.ReviewsReceived(r.Context(), problemID, account)
	if err != nil {
		s.handleServiceError(w, op, api.CodeCorrectedInfoError, err)
		return
	}

	s.respondSuccess(w, received)
}

func (s *Server) PostSubmitCorrect(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostSubmitCorrect"

	account, err := s.callerAccount(r)
	if err != nil {
		s.handleServiceError(w, op, api.CodeSubmitCorrectError, err)
		return
	}

	var req submitCorrectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, api.CodeSubmitCorrectError, err)
		return
	}

	problemID, err := parseID(req.ProblemID)
	if err != nil {
		s.handleServiceError(w, op, api.CodeSubmitCorrectError, err)
		return
	}

	reviews := make([]api.ReviewSubmission, len(req.Corrections))
	for i, c := range req.Corrections {
		reviews[i] = api.ReviewSubmission{
			CorrectedAccount: c.CorrectedAccount,
			CorrectValue:     api.ScoreValue(c.CorrectValue),
			ReadValue:        api.ScoreValue(c.ReadValue),
			SkillValue:       api.ScoreValue(c.SkillValue),
			CompleteValue:    api.ScoreValue(c.CompleteValue),
			WholeValue:       api.ScoreValue(c.WholeValue),
			Comment:          c.Comment,
		}
	}

	if err := s.correctionService.SubmitReview(r.Context(), problemID, account, reviews); err != nil {
		s.handleServiceError(w, op, api.CodeSubmitCorrectError, err)
		return
	}

	s.respondSuccess(w, nil)
}

func (s *Server) GetDiscussScore(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetDiscussScore"

	problemID, err := parseID(r.URL.Query().Get("problemId"))
	if err != nil {
		s.handleServiceError(w, op, api.CodeDiscussScoreError, err)
		return
	}

	summaries, err := s.correctionService.SummarizeDiscussion(r.Context(), problemID)
	if err != nil {
		s.handleServiceError(w, op, api.CodeDiscussScoreError, err)
		return
	}

	s.respondSuccess(w, summaries)
}

func (s *Server) PostDeleteStudents(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostDeleteStudents"

	var req deleteStudentsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, api.CodeDeleteStudentsError, err)
		return
	}

	courseID, err := parseID(req.CourseID)
	if err != nil {
		s.handleServiceError(w, op, api.CodeDeleteStudentsError, err)
		return
	}

	if err := s.membershipService.RemoveStudents(r.Context(), courseID, req.Accounts); err != nil {
		s.handleServiceError(w, op, api.CodeDeleteStudentsError, err)
		return
	}

	s.respondSuccess(w, nil)
}

// callerParams extracts the problemId query parameter and the caller's
// account, the common inputs of the per-student GET endpoints.
func (s *Server) callerParams(r *http.Request) (int64, string, error) {
	problemID, err := parseID(r.URL.Query().Get("problemId"))
	if err != nil {
		return 0, "", err
	}

	account, err := s.callerAccount(r)
	if err != nil {
		return 0, "", err
	}

	return problemID, account, nil
}

func (s *Server) callerAccount(r *http.Request) (string, error) {
	account := r.Header.Get(accountHeader)
	if account == "" {
		return "", fmt.Errorf("%w: missing %s header", apperrors.ErrInvalidRequest, accountHeader)
	}

	return account, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id '%s'", apperrors.ErrInvalidRequest, raw)
	}

	return id, nil
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, msg api.Message) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
	}
}

func (s *Server) respondSuccess(w http.ResponseWriter, payload any) {
	s.respond(w, http.StatusOK, api.Message{
		StatusCode: api.StatusSuccess,
		Payload:    payload,
	})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it onto the Message envelope: malformed
// input is a 400 with INVALID_REQUEST, a missing entity keeps HTTP 200 and
// reports the operation's own error code, anything else is a 500.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, opCode string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr), errors.Is(err, apperrors.ErrInvalidRequest):
		s.respond(w, http.StatusBadRequest, api.Message{StatusCode: api.CodeInvalidRequest})
	case errors.Is(err, apperrors.ErrNotFound):
		s.respond(w, http.StatusOK, api.Message{StatusCode: opCode})
	default:
		s.respond(w, http.StatusInternalServerError, api.Message{StatusCode: api.CodeInternalError})
	}
}
