package models

import "time"

// Report is one anonymous incident submission. The tracking ID is the
// only identifier ever shown to the reporter; everything except Status
// and UpdatedAt is immutable after insert.
type Report struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TrackingID    string    `gorm:"size:18;not null;uniqueIndex" json:"tracking_id"`
	Category      string    `gorm:"size:50;not null;index" json:"category"`
	Severity      string    `gorm:"size:20;not null;index" json:"severity"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReporterEmail *string   `gorm:"size:255" json:"reporter_email,omitempty"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
