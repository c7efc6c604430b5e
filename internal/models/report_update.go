package models

import "time"

// ReportUpdate is an append-only audit entry, one per status change.
// Rows are never updated or deleted; the admin reference is kept as a
// bare ID so deleting an admin account leaves history intact.
type ReportUpdate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  uint      `gorm:"not null;index" json:"report_id"`
	AdminID   *uint     `json:"admin_id,omitempty"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}
