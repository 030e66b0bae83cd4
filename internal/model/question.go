package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionCoding         QuestionType = "coding"
	QuestionDescriptive    QuestionType = "descriptive"
)

// AutoGradable reports whether answers of this type are scored at submission
// time. Everything else is left to manual grading and contributes 0.
func (t QuestionType) AutoGradable() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer, QuestionCoding, QuestionDescriptive:
		return true
	}
	return false
}

type Question struct {
	ID             uint                        `gorm:"primarykey" json:"id"`
	RoundID        uint                        `json:"round_id" gorm:"not null;index"`
	QuestionType   QuestionType                `json:"question_type" gorm:"not null"`
	QuestionText   string                      `json:"question_text" gorm:"type:text;not null"`
	QuestionNumber int                         `json:"question_number" gorm:"not null"`
	Points         int                         `json:"points" gorm:"not null;default:1"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectAnswer  *string                     `json:"correct_answer,omitempty"`
	ExpectedOutput *string                     `json:"expected_output,omitempty" gorm:"type:text"`
	TestCases      datatypes.JSON              `json:"test_cases,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}
