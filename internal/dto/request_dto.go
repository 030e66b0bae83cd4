package dto

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EventCreateRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type EventUpdateRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Type        *string    `json:"type"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// RuleSetRequest upserts either event-level or round-level proctoring rules.
type RuleSetRequest struct {
	NoRefresh             bool    `json:"no_refresh"`
	NoTabSwitch           bool    `json:"no_tab_switch"`
	ForceFullscreen       bool    `json:"force_fullscreen"`
	DisableShortcuts      bool    `json:"disable_shortcuts"`
	AutoSubmitOnViolation bool    `json:"auto_submit_on_violation"`
	MaxTabSwitchWarnings  int     `json:"max_tab_switch_warnings" binding:"min=0"`
	AdditionalRules       *string `json:"additional_rules"`
}

type RoundCreateRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	RoundNumber int        `json:"round_number" binding:"required,min=1"`
	Duration    int        `json:"duration" binding:"required,min=1"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type RoundUpdateRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	RoundNumber *int       `json:"round_number"`
	Duration    *int       `json:"duration"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Status      *string    `json:"status"`
}

type QuestionCreateRequest struct {
	QuestionType   string   `json:"question_type" binding:"required"`
	QuestionText   string   `json:"question_text" binding:"required"`
	QuestionNumber int      `json:"question_number" binding:"required,min=1"`
	Points         int      `json:"points" binding:"required,min=1"`
	Options        []string `json:"options"`
	CorrectAnswer  *string  `json:"correct_answer"`
	ExpectedOutput *string  `json:"expected_output"`
	TestCases      []byte   `json:"test_cases"`
}

type QuestionUpdateRequest struct {
	QuestionText   *string  `json:"question_text"`
	QuestionNumber *int     `json:"question_number"`
	Points         *int     `json:"points"`
	Options        []string `json:"options"`
	CorrectAnswer  *string  `json:"correct_answer"`
	ExpectedOutput *string  `json:"expected_output"`
}

type ParticipantRegisterRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type SaveAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type ViolationRequest struct {
	Type string `json:"type" binding:"required"`
}
