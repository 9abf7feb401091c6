package dto

// StartAttemptRequest starts the optional attempt timer.
type StartAttemptRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

// SubmitAttemptRequest carries one letter per quiz question, in question order.
// Letters are not validated here: anything that does not map to an option is graded as wrong.
type SubmitAttemptRequest struct {
	QuizID           uint     `json:"quiz_id" binding:"required"`
	UserID           uint     `json:"user_id" binding:"required"`
	TimeSpentSeconds float64  `json:"time_spent_seconds" binding:"gte=0"`
	SelectedOptions  []string `json:"selected_options" binding:"required"`
}

type GenerateQuestionsRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1,dive,notblank"`
}

// QuestionCreateDTO mirrors a generated question. CorrectAnswer is either the text
// of one of Options or a single letter addressing it.
type QuestionCreateDTO struct {
	Question      string   `json:"question" binding:"required,notblank"`
	Options       []string `json:"options" binding:"required,min=2,max=26,dive,notblank"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,notblank"`
}

type SaveQuizRequest struct {
	QuizTitle       string              `json:"quiz_title" binding:"required,notblank,max=100"`
	QuizDescription string              `json:"quiz_description"`
	UserID          uint                `json:"user_id" binding:"required"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest accepts either the email or the username in Username. The form tags
// match the OAuth2 password grant fields.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
