package models

import (
	"time"
)

const (
	VoteTypeYes = "yes"
	VoteTypeNo  = "no"
)

// Vote is a legitimacy vote on a report. The composite unique index makes a
// second vote by the same user a storage-level conflict instead of an
// overwrite.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_user_report;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReportID  uint      `gorm:"uniqueIndex:idx_votes_user_report;index;not null" json:"report_id"`
	Report    *Report   `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	VoteType  string    `gorm:"type:varchar(3);not null" json:"vote_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidVoteType reports whether t is one of the two accepted vote types.
func IsValidVoteType(t string) bool {
	return t == VoteTypeYes || t == VoteTypeNo
}
