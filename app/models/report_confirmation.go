package models

import (
	"time"
)

// ReportConfirmation records one trusted-user confirmation of a report.
// The composite unique index caps each qualifying user at a single
// contribution to the trusted_confirmations counter, mirroring how votes are
// constrained.
type ReportConfirmation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_confirmations_user_report;not null" json:"user_id"`
	ReportID  uint      `gorm:"uniqueIndex:idx_confirmations_user_report;index;not null" json:"report_id"`
	Report    *Report   `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
