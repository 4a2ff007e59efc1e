// package api holds the wire types of the peer-review service. Every response
// is a Message envelope: a status code plus an operation-specific payload.
// Review payloads are explicit tagged records, one ScoreValue per scored
// dimension, never untyped maps.
package api

// Message is the uniform response envelope. StatusCode is StatusSuccess on
// success and an operation-specific error code otherwise; failed operations
// carry an empty payload.
type Message struct {
	StatusCode string `json:"statusCode"`
	Payload    any    `json:"payload"`
}

const (
	StatusSuccess = "SUCCESS"

	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"

	CodeCreateTeamError           = "CREATE_TEAM_ERROR"
	CodeCorrectStudsError         = "CORRECT_STUDS_ERROR"
	CodeCheckCorrectStatusError   = "CHECK_CORRECT_STATUS_ERROR"
	CodeCheckCorrectedStatusError = "CHECK_CORRECTED_STATUS_ERROR"
	CodeCorrectInfoError          = "CORRECT_INFO_ERROR"
	CodeCorrectedInfoError        = "CORRECTED_INFO_ERROR"
	CodeSubmitCorrectError        = "SUBMIT_CORRECT_ERROR"
	CodeDiscussScoreError         = "DISCUSS_SCORE_ERROR"
	CodeDeleteStudentsError       = "DELETE_STUDENTS_ERROR"
)

// ScoreValue is one scored review dimension.
type ScoreValue struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Pair assigns a reviewer to the accounts it must review.
type Pair struct {
	Account           string   `json:"account"`
	CorrectedAccounts []string `json:"correctedAccounts"`
}

// ReviewTarget is one reviewable assignment: a teammate and their current
// submitted code. Teammates without a submission are not listed.
type ReviewTarget struct {
	StudentAccount string `json:"studentAccount"`
	Code           string `json:"code"`
}

// CorrectStatus wraps the boolean status payloads of the check endpoints.
type CorrectStatus struct {
	Status bool `json:"status"`
}

// ReviewSubmission is one entry of a submit-review batch.
type ReviewSubmission struct {
	CorrectedAccount string     `json:"correctedAccount"`
	CorrectValue     ScoreValue `json:"correctValue"`
	ReadValue        ScoreValue `json:"readValue"`
	SkillValue       ScoreValue `json:"skillValue"`
	CompleteValue    ScoreValue `json:"completeValue"`
	WholeValue       ScoreValue `json:"wholeValue"`
	Comment          string     `json:"comment"`
}

// ReviewGiven is a review the caller authored, paired with the reviewee's
// current code.
type ReviewGiven struct {
	StudentAccount string     `json:"studentAccount"`
	Code           string     `json:"code"`
	CorrectValue   ScoreValue `json:"correctValue"`
	ReadValue      ScoreValue `json:"readValue"`
	SkillValue     ScoreValue `json:"skillValue"`
	CompleteValue  ScoreValue `json:"completeValue"`
	WholeValue     ScoreValue `json:"wholeValue"`
	Comment        string     `json:"comment"`
}

// ReviewSummary is a review the caller received. The reviewer's identity is
// deliberately absent: a reviewee sees scores, not who gave them.
type ReviewSummary struct {
	CorrectValue  ScoreValue `json:"correctValue"`
	ReadValue     ScoreValue `json:"readValue"`
	SkillValue    ScoreValue `json:"skillValue"`
	CompleteValue ScoreValue `json:"completeValue"`
	WholeValue    ScoreValue `json:"wholeValue"`
	Comment       string     `json:"comment"`
}

// ReceivedComment is one review inside the instructor summary, reviewer
// account included.
type ReceivedComment struct {
	StudentAccount string     `json:"studentAccount"`
	CorrectValue   ScoreValue `json:"correctValue"`
	ReadValue      ScoreValue `json:"readValue"`
	SkillValue     ScoreValue `json:"skillValue"`
	CompleteValue  ScoreValue `json:"completeValue"`
	WholeValue     ScoreValue `json:"wholeValue"`
	Comment        string     `json:"comment"`
}

// DiscussSummary is one instructor-view row per paired student. Score is the
// latest submission score rendered as a string, or the no-submission marker.
type DiscussSummary struct {
	Account        string            `json:"account"`
	Name           string            `json:"name"`
	StudentClass   string            `json:"studentClass"`
	CourseName     string            `json:"courseName"`
	Score          string            `json:"score"`
	DiscussedScore []ReceivedComment `json:"discussedScore"`
}
