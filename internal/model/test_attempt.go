package model

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress    AttemptStatus = "in_progress"
	AttemptCompleted     AttemptStatus = "completed"
	AttemptAutoSubmitted AttemptStatus = "auto_submitted"
)

// Terminal reports whether no further transition may leave this status.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptAutoSubmitted
}

// TestAttempt is one participant's single timed run through a round's
// questions. At most one attempt ever exists per (UserID, RoundID); MaxScore
// is frozen at start time and never recomputed.
type TestAttempt struct {
	ID                  uint                              `gorm:"primarykey" json:"id"`
	RoundID             uint                              `json:"round_id" gorm:"not null;index;uniqueIndex:idx_round_user"`
	UserID              uint                              `json:"user_id" gorm:"not null;index;uniqueIndex:idx_round_user"`
	StartedAt           time.Time                         `json:"started_at" gorm:"not null"`
	SubmittedAt         *time.Time                        `json:"submitted_at,omitempty"`
	CompletedAt         *time.Time                        `json:"completed_at,omitempty"`
	Status              AttemptStatus                     `json:"status" gorm:"not null;default:'in_progress';index"`
	TabSwitchCount      int                               `json:"tab_switch_count" gorm:"not null;default:0"`
	RefreshAttemptCount int                               `json:"refresh_attempt_count" gorm:"not null;default:0"`
	ViolationLogs       datatypes.JSONSlice[ViolationLog] `json:"violation_logs,omitempty"`
	TotalScore          int                               `json:"total_score" gorm:"not null;default:0"`
	MaxScore            int                               `json:"max_score" gorm:"not null;default:0"`
	Answers             []Answer                          `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
