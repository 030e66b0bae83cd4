package model

import "time"

type RoundStatus string

const (
	RoundUpcoming  RoundStatus = "upcoming"
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

type Round struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	EventID     uint        `json:"event_id" gorm:"not null;index"`
	Name        string      `json:"name" gorm:"not null"`
	Description *string     `json:"description,omitempty" gorm:"type:text"`
	RoundNumber int         `json:"round_number" gorm:"not null"`
	Duration    int         `json:"duration" gorm:"not null"` // minutes
	StartTime   *time.Time  `json:"start_time,omitempty"`
	EndTime     *time.Time  `json:"end_time,omitempty"`
	Status      RoundStatus `json:"status" gorm:"not null;default:'upcoming'"`
	Questions   []Question  `json:"questions,omitempty" gorm:"foreignKey:RoundID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rules       *RoundRules `json:"rules,omitempty" gorm:"foreignKey:RoundID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
