package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportStatusPending           = "pending"
	ReportStatusCommunityVerified = "community_verified"
	ReportStatusFullyVerified     = "fully_verified"
	ReportStatusDismissed         = "dismissed"
	ReportStatusExpired           = "expired"
)

// TrustedConfirmationTarget is the number of distinct trusted confirmations
// required before a report becomes fully verified.
const TrustedConfirmationTarget = 3

type Report struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	UUID                 string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	UserID               uint              `gorm:"index;not null" json:"user_id"`
	User                 *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ActorName            string            `gorm:"type:varchar(150);not null" json:"actor_name" validate:"required,min=2,max=150"`
	WalletAddress        string            `gorm:"type:varchar(120);index" json:"wallet_address" validate:"max=120"`
	Description          string            `gorm:"type:text" json:"description" validate:"required,min=10"`
	SocialLinks          map[string]string `gorm:"serializer:json" json:"social_links,omitempty"`
	EvidenceURLs         []string          `gorm:"serializer:json" json:"evidence_urls,omitempty"`
	Status               string            `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	VoteYes              int               `gorm:"default:0" json:"vote_yes"`
	VoteNo               int               `gorm:"default:0" json:"vote_no"`
	TrustedConfirmations int               `gorm:"default:0" json:"trusted_confirmations"`
	ExpiresAt            *time.Time        `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt            time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewReport creates a pending report with zeroed counters for the given owner.
func NewReport(userID uint, actorName, walletAddress, description string, socialLinks map[string]string, expiresAt *time.Time) *Report {
	return &Report{
		UUID:          uuid.NewString(),
		UserID:        userID,
		ActorName:     actorName,
		WalletAddress: walletAddress,
		Description:   description,
		SocialLinks:   socialLinks,
		Status:        ReportStatusPending,
		ExpiresAt:     expiresAt,
	}
}

// IsExpirable reports whether the status still allows the lazy expiry
// transition. Fully verified reports are permanent, dismissed and expired
// reports are terminal.
func (r *Report) IsExpirable() bool {
	return r.Status == ReportStatusPending || r.Status == ReportStatusCommunityVerified
}

// IsExpired reports whether the expiry deadline has passed for an expirable report.
func (r *Report) IsExpired(now time.Time) bool {
	return r.IsExpirable() && r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// IsClosed reports whether the report sits in a terminal status that no
// verification action may lift. Fully verified is permanent but not closed:
// repeat confirmations against it are tolerated, they just change nothing.
func (r *Report) IsClosed() bool {
	return r.Status == ReportStatusExpired || r.Status == ReportStatusDismissed
}

// FindReportByUUID loads a report by its public UUID.
func FindReportByUUID(db *gorm.DB, publicID string) (*Report, error) {
	var report Report
	if err := db.Where("uuid = ?", publicID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
