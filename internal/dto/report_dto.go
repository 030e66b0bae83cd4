package dto

import (
	"encoding/json"
	"time"
)

// QuestionStat is per-question accuracy over graded answers of a round.
type QuestionStat struct {
	QuestionID     uint `json:"question_id"`
	QuestionNumber int  `json:"question_number"`
	CorrectAnswers int  `json:"correct_answers"`
	TotalAnswers   int  `json:"total_answers"`
}

// ParticipantViolationSummary rolls up one participant's violations in a round.
type ParticipantViolationSummary struct {
	UserID              uint `json:"user_id"`
	TabSwitchCount      int  `json:"tab_switch_count"`
	RefreshAttemptCount int  `json:"refresh_attempt_count"`
	TotalLogged         int  `json:"total_logged"`
}

type RoundReport struct {
	RoundID           uint                          `json:"round_id"`
	Name              string                        `json:"name"`
	RoundNumber       int                           `json:"round_number"`
	CompletedAttempts int                           `json:"completed_attempts"`
	AverageScore      float64                       `json:"average_score"`
	QuestionStats     []QuestionStat                `json:"question_stats"`
	Violations        []ParticipantViolationSummary `json:"violations"`
	Leaderboard       []LeaderboardEntry            `json:"leaderboard"` // top 10
}

type ParticipantRollup struct {
	UserID          uint   `json:"user_id"`
	FullName        string `json:"full_name,omitempty"`
	TotalScore      int    `json:"total_score"`
	RoundsCompleted int    `json:"rounds_completed"`
	TotalViolations int    `json:"total_violations"`
}

type EventReportData struct {
	EventID      uint                `json:"event_id"`
	EventName    string              `json:"event_name"`
	EventStatus  string              `json:"event_status"`
	Rounds       []RoundReport       `json:"rounds"`
	Participants []ParticipantRollup `json:"participants"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

type PerformerEntry struct {
	UserID            uint   `json:"user_id"`
	FullName          string `json:"full_name,omitempty"`
	TotalScore        int    `json:"total_score"`
	CompletedAttempts int    `json:"completed_attempts"`
}

type SymposiumReportData struct {
	TotalEvents          int              `json:"total_events"`
	EventsByStatus       map[string]int   `json:"events_by_status"`
	TotalParticipants    int64            `json:"total_participants"`
	CompletedAttempts    int              `json:"completed_attempts"`
	TotalTabSwitches     int              `json:"total_tab_switches"`
	TotalRefreshAttempts int              `json:"total_refresh_attempts"`
	TotalViolationEvents int              `json:"total_violation_events"`
	TopPerformers        []PerformerEntry `json:"top_performers"` // top 50
	GeneratedAt          time.Time        `json:"generated_at"`
}

type ReportResponse struct {
	ID          uint            `json:"id"`
	EventID     *uint           `json:"event_id,omitempty"`
	ReportType  string          `json:"report_type"`
	Title       string          `json:"title"`
	GeneratedBy uint            `json:"generated_by"`
	ReportData  json.RawMessage `json:"report_data"`
	CreatedAt   time.Time       `json:"created_at"`
}
