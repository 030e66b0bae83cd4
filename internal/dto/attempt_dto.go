package dto

import (
	"time"

	"github.com/symposium-hq/sympro/internal/model"
)

type AnswerResponse struct {
	ID            uint      `json:"id"`
	QuestionID    uint      `json:"question_id"`
	Answer        string    `json:"answer"`
	IsCorrect     *bool     `json:"is_correct,omitempty"`
	PointsAwarded int       `json:"points_awarded"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// AttemptDetailResponse is the enriched attempt view: the attempt itself, its
// round, the round's questions (participant-safe) and the attempt's answers.
type AttemptDetailResponse struct {
	ID                  uint                      `json:"id"`
	RoundID             uint                      `json:"round_id"`
	UserID              uint                      `json:"user_id"`
	Status              string                    `json:"status"`
	StartedAt           time.Time                 `json:"started_at"`
	SubmittedAt         *time.Time                `json:"submitted_at,omitempty"`
	CompletedAt         *time.Time                `json:"completed_at,omitempty"`
	TabSwitchCount      int                       `json:"tab_switch_count"`
	RefreshAttemptCount int                       `json:"refresh_attempt_count"`
	ViolationLogs       []model.ViolationLog      `json:"violation_logs,omitempty"`
	TotalScore          int                       `json:"total_score"`
	MaxScore            int                       `json:"max_score"`
	Round               *RoundResponse            `json:"round,omitempty"`
	Questions           []AttemptQuestionResponse `json:"questions,omitempty"`
	Answers             []AnswerResponse          `json:"answers,omitempty"`
}

type AttemptSummaryResponse struct {
	ID          uint       `json:"id"`
	RoundID     uint       `json:"round_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	TotalScore  int        `json:"total_score"`
	MaxScore    int        `json:"max_score"`
}

// ViolationResponse reports the attempt's counters after a logged violation
// and whether the policy forced an auto-submission.
type ViolationResponse struct {
	AttemptID           uint   `json:"attempt_id"`
	Type                string `json:"type"`
	TabSwitchCount      int    `json:"tab_switch_count"`
	RefreshAttemptCount int    `json:"refresh_attempt_count"`
	Status              string `json:"status"`
	AutoSubmitted       bool   `json:"auto_submitted"`
}

type LeaderboardEntry struct {
	Rank        uint       `json:"rank"`
	UserID      uint       `json:"user_id"`
	Username    string     `json:"username,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	TotalScore  int        `json:"total_score"`
	MaxScore    int        `json:"max_score,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}
