package models

import (
	"time"
)

const CommentMaxLength = 2000

// ReportComment is a threaded discussion entry below a report. Replies point
// at their parent via ParentID; top-level comments have a nil parent.
type ReportComment struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	ReportID  uint             `gorm:"index;not null" json:"report_id"`
	Report    *Report          `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	UserID    uint             `gorm:"index;not null" json:"user_id"`
	User      *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentID  *uint            `gorm:"index" json:"parent_id,omitempty"`
	Content   string           `gorm:"column:content;type:text;not null" json:"content" validate:"required,min=1,max=2000"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	Replies   []*ReportComment `gorm:"-" json:"replies,omitempty"`
}

// BuildCommentTree arranges a flat, creation-ordered comment list into a
// threaded structure. Replies whose parent is missing are promoted to the
// top level rather than dropped.
func BuildCommentTree(flat []ReportComment) []*ReportComment {
	byID := make(map[uint]*ReportComment, len(flat))
	for i := range flat {
		byID[flat[i].ID] = &flat[i]
	}

	var roots []*ReportComment
	for i := range flat {
		c := &flat[i]
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
