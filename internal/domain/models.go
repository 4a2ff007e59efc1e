package domain

import "time"

// MaxScore is the maximum passing score a submission can reach. A student
// holds the best code for a problem only with a full-score submission.
const MaxScore = 100

// NoSubmissionScore is the literal placed in instructor summaries for a
// student who never submitted. The frontend matches it byte-for-byte.
const NoSubmissionScore = "未作答"

// Team is the peer-review pairing record for one (problem, account). It holds
// both sides of the relationship: the accounts this student must review and
// the reviews other students have submitted about this student.
type Team struct {
	ID        int64  `db:"id"`
	ProblemID int64  `db:"problem_id"`
	Account   string `db:"account"`
	// CorrectedAccounts is the ordered list of accounts this student reviews.
	CorrectedAccounts []string
	// CommentResults is the append-only inbox of reviews received by Account.
	CommentResults []CommentResult
}

// ScoreValue is one scored dimension of a review.
type ScoreValue struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// CommentResult is one completed review. Account identifies the reviewer; the
// reviewee is implied by which Team's inbox holds the entry. Entries are
// immutable once appended, resubmission appends a new entry.
type CommentResult struct {
	Account       string     `json:"account"`
	CorrectValue  ScoreValue `json:"correctValue"`
	ReadValue     ScoreValue `json:"readValue"`
	SkillValue    ScoreValue `json:"skillValue"`
	CompleteValue ScoreValue `json:"completeValue"`
	WholeValue    ScoreValue `json:"wholeValue"`
	Comment       string     `json:"comment"`
}

// HistoryCode is one code submission attempt.
type HistoryCode struct {
	Code        string    `json:"code"`
	Score       float64   `json:"score"`
	RunTime     float64   `json:"runTime"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Judge is a student's submission record for a problem. HistoryCodes is
// append-only; the last element is the current code, score and runtime.
type Judge struct {
	ID             int64  `db:"id"`
	ProblemID      int64  `db:"problem_id"`
	StudentAccount string `db:"student_account"`
	HistoryCodes   []HistoryCode
}

// Latest returns the current submission, nil when the history is empty.
func (j *Judge) Latest() *HistoryCode {
	if len(j.HistoryCodes) == 0 {
		return nil
	}

	return &j.HistoryCodes[len(j.HistoryCodes)-1]
}

// Problem carries the denormalized best-code pointer. BestStudentAccount is
// empty when no student holds a full-score submission.
type Problem struct {
	ID                 int64  `db:"id"`
	CourseID           int64  `db:"course_id"`
	Name               string `db:"name"`
	BestStudentAccount string `db:"best_student_account"`
}

type Student struct {
	Account string `db:"account"`
	Name    string `db:"name"`
	Class   string `db:"class"`
}

type Course struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Semester string `db:"semester"`
}

// Pair is one entry of the instructor's pairing input: a reviewer and the
// accounts that reviewer is assigned to.
type Pair struct {
	Account           string
	CorrectedAccounts []string
}
