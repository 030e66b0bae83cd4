package model

import (
	"time"

	"gorm.io/datatypes"
)

type ReportType string

const (
	ReportEventWise     ReportType = "event_wise"
	ReportSymposiumWide ReportType = "symposium_wide"
)

// Report is an immutable snapshot; regeneration creates a new row.
type Report struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	EventID     *uint          `json:"event_id,omitempty" gorm:"index"` // nil for symposium-wide
	ReportType  ReportType     `json:"report_type" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	GeneratedBy uint           `json:"generated_by" gorm:"not null"`
	ReportData  datatypes.JSON `json:"report_data" gorm:"not null"`
	FileURL     *string        `json:"file_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
