package model

import "time"

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
)

type Event struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;not null"`
	Type        string        `json:"type" gorm:"not null"` // quiz, coding, general, ...
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      EventStatus   `json:"status" gorm:"not null;default:'draft'"`
	CreatedBy   uint          `json:"created_by" gorm:"not null;index"`
	Rounds      []Round       `json:"rounds,omitempty" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rules       *EventRules   `json:"rules,omitempty" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
