package models

import "time"

// Attachment is evidence uploaded against a report. The blob lives on
// disk under StoredName; the row only carries metadata.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   uint      `gorm:"not null;index" json:"report_id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	StoredName string    `gorm:"size:64;not null" json:"-"`
	Mimetype   string    `gorm:"size:100;not null" json:"mimetype"`
	Size       int64     `gorm:"not null" json:"size"`
	CreatedAt  time.Time `json:"created_at"`
	Report     Report    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}
