package models

import (
	"time"
)

// PollVote is a vote in the informational poll attached to verified reports.
// One vote per (user, report); it never drives status transitions or XP.
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_poll_votes_user_report;not null" json:"user_id"`
	ReportID  uint      `gorm:"uniqueIndex:idx_poll_votes_user_report;index;not null" json:"report_id"`
	Report    *Report   `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	Option    string    `gorm:"type:varchar(50);not null" json:"option"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
