package http

type scoreValueRequest struct {
	Score   int    `json:"score" validate:"min=0,max=100"`
	Comment string `json:"comment" validate:"max=500"`
}

type pairRequest struct {
	Account           string   `json:"account" validate:"required,custom_id,min=1,max=100"`
	CorrectedAccounts []string `json:"correctedAccounts" validate:"required,dive,required,custom_id,min=1,max=100"`
}

type createTeamRequest struct {
	ProblemID string        `json:"problemId" validate:"required,numeric"`
	Pairs     []pairRequest `json:"pairs" validate:"required,min=1,dive"`
}

type correctionRequest struct {
	CorrectedAccount string            `json:"correctedAccount" validate:"required,custom_id,min=1,max=100"`
	CorrectValue     scoreValueRequest `json:"correctValue"`
	ReadValue        scoreValueRequest `json:"readValue"`
	SkillValue       scoreValueRequest `json:"skillValue"`
	CompleteValue    scoreValueRequest `json:"completeValue"`
	WholeValue       scoreValueRequest `json:"wholeValue"`
	Comment          string            `json:"comment" validate:"max=1000"`
}

type submitCorrectRequest struct {
	ProblemID   string              `json:"problemId" validate:"required,numeric"`
	Corrections []correctionRequest `json:"corrections" validate:"required,min=1,dive"`
}

type deleteStudentsRequest struct {
	CourseID string   `json:"courseId" validate:"required,numeric"`
	Accounts []string `json:"accounts" validate:"required,min=1,dive,required,custom_id,min=1,max=100"`
}
