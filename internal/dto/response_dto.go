package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type EventResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RuleSetResponse struct {
	RoundID               uint    `json:"round_id,omitempty"`
	Source                string  `json:"source,omitempty"` // round, event, default
	NoRefresh             bool    `json:"no_refresh"`
	NoTabSwitch           bool    `json:"no_tab_switch"`
	ForceFullscreen       bool    `json:"force_fullscreen"`
	DisableShortcuts      bool    `json:"disable_shortcuts"`
	AutoSubmitOnViolation bool    `json:"auto_submit_on_violation"`
	MaxTabSwitchWarnings  int     `json:"max_tab_switch_warnings"`
	AdditionalRules       *string `json:"additional_rules,omitempty"`
}

type RoundResponse struct {
	ID          uint       `json:"id"`
	EventID     uint       `json:"event_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	RoundNumber int        `json:"round_number"`
	Duration    int        `json:"duration"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Status      string     `json:"status"`
}

// QuestionResponse is the administrative view, correct answer included.
type QuestionResponse struct {
	ID             uint     `json:"id"`
	RoundID        uint     `json:"round_id"`
	QuestionType   string   `json:"question_type"`
	QuestionText   string   `json:"question_text"`
	QuestionNumber int      `json:"question_number"`
	Points         int      `json:"points"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  *string  `json:"correct_answer,omitempty"`
	ExpectedOutput *string  `json:"expected_output,omitempty"`
}

// AttemptQuestionResponse is what a participant sees while taking a test:
// no correct answer, no expected output.
type AttemptQuestionResponse struct {
	ID             uint     `json:"id"`
	QuestionType   string   `json:"question_type"`
	QuestionText   string   `json:"question_text"`
	QuestionNumber int      `json:"question_number"`
	Points         int      `json:"points"`
	Options        []string `json:"options,omitempty"`
}

type ParticipantResponse struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	UserID       uint      `json:"user_id"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}
