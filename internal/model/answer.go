package model

import "time"

// Answer holds a participant's answer to one question within an attempt.
// One row per (AttemptID, QuestionID); a resubmission overwrites the text.
// QuestionID deliberately carries no foreign-key constraint so graded answers
// survive later question deletion.
type Answer struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AttemptID     uint      `json:"attempt_id" gorm:"not null;index;uniqueIndex:idx_attempt_question"`
	QuestionID    uint      `json:"question_id" gorm:"not null;index;uniqueIndex:idx_attempt_question"`
	Answer        string    `json:"answer" gorm:"type:text;not null"`
	IsCorrect     *bool     `json:"is_correct,omitempty"`
	PointsAwarded int       `json:"points_awarded" gorm:"not null;default:0"`
	AnsweredAt    time.Time `json:"answered_at" gorm:"autoCreateTime"`
}
