package models

import (
	"time"
)

const (
	FeedbackTypePositive = "positive"
	FeedbackTypeNegative = "negative"
	FeedbackTypeNeutral  = "neutral"
)

// FeedbackCooldown is the minimum age of an existing feedback record before
// the same pair of users may exchange a new one.
const FeedbackCooldown = 30 * 24 * time.Hour

// FeedbackNegativeMinComment is the minimum comment length for negative feedback.
const FeedbackNegativeMinComment = 50

// UserFeedback is reputation feedback from one user to another. The unique
// pair index holds the "at most one live record per (from, to)" invariant at
// the storage layer; resubmitting after the cooldown replaces the stale
// record instead of accumulating duplicates.
type UserFeedback struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FromUserID      uint      `gorm:"uniqueIndex:idx_feedback_pair;not null" json:"from_user_id"`
	FromUser        *User     `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID        uint      `gorm:"uniqueIndex:idx_feedback_pair;index;not null" json:"to_user_id"`
	Type            string    `gorm:"type:varchar(10);not null" json:"type"`
	CommentText     *string   `gorm:"type:text" json:"comment_text,omitempty"`
	RelatedReportID *uint     `gorm:"index" json:"related_report_id,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidFeedbackType reports whether t is one of the accepted feedback types.
func IsValidFeedbackType(t string) bool {
	return t == FeedbackTypePositive || t == FeedbackTypeNegative || t == FeedbackTypeNeutral
}

// FeedbackSummary aggregates feedback counts for a profile page.
type FeedbackSummary struct {
	Total    int64 `json:"total"`
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
	Neutral  int64 `json:"neutral"`
}
