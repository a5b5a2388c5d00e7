package feedback

import (
	"errors"

	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
)

// Repository provides the feedback persistence used by the cooldown policy.
type Repository interface {
	// FindLatest returns the most recent feedback record from one user to
	// another, or nil when the pair has never exchanged feedback.
	FindLatest(fromUserID, toUserID uint) (*models.UserFeedback, error)

	// Replace removes any stale records for the pair and inserts the new one
	// in a single transaction, so the pair never holds more than one live
	// feedback record. A concurrent insert racing past the cooldown read is
	// caught by the unique pair index and surfaces as ErrCooldownActive.
	Replace(record *models.UserFeedback) error

	ListForUser(toUserID uint) ([]models.UserFeedback, error)
	SummaryForUser(toUserID uint) (models.FeedbackSummary, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a feedback repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindLatest(fromUserID, toUserID uint) (*models.UserFeedback, error) {
	var record models.UserFeedback
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) Replace(record *models.UserFeedback) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_user_id = ? AND to_user_id = ?", record.FromUserID, record.ToUserID).
			Delete(&models.UserFeedback{}).Error; err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			// Two concurrent submissions for the same pair both pass the
			// cooldown read; the unique pair index lets only one insert win.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCooldownActive
			}
			return err
		}
		return nil
	})
}

func (r *gormRepository) ListForUser(toUserID uint) ([]models.UserFeedback, error) {
	var records []models.UserFeedback
	err := r.db.Preload("FromUser").
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) SummaryForUser(toUserID uint) (models.FeedbackSummary, error) {
	var summary models.FeedbackSummary
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.UserFeedback{}).
		Select("type, COUNT(*) as count").
		Where("to_user_id = ?", toUserID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return summary, err
	}
	for _, r := range rows {
		summary.Total += r.Count
		switch r.Type {
		case models.FeedbackTypePositive:
			summary.Positive = r.Count
		case models.FeedbackTypeNegative:
			summary.Negative = r.Count
		case models.FeedbackTypeNeutral:
			summary.Neutral = r.Count
		}
	}
	return summary, nil
}
