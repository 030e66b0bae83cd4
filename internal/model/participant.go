package model

import "time"

type ParticipantStatus string

const (
	ParticipantRegistered   ParticipantStatus = "registered"
	ParticipantParticipated ParticipantStatus = "participated"
	ParticipantDisqualified ParticipantStatus = "disqualified"
)

type Participant struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	EventID      uint              `json:"event_id" gorm:"not null;uniqueIndex:idx_event_user"`
	UserID       uint              `json:"user_id" gorm:"not null;uniqueIndex:idx_event_user"`
	Status       ParticipantStatus `json:"status" gorm:"not null;default:'registered'"`
	RegisteredAt time.Time         `json:"registered_at" gorm:"autoCreateTime"`
}
