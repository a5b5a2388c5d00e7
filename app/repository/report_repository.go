package repository

import (
	"strings"
	"time"

	"github.com/scamwatch/scamwatch/app/models"
	"gorm.io/gorm"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.Preload("User").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetByUUID(publicID string) (*models.Report, error) {
	var report models.Report
	if err := r.db.Preload("User").Where("uuid = ?", publicID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetByUserID(userID uint, offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) List(offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) ListByStatus(statuses []string, offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Preload("User").
		Where("status IN ?", statuses).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

// ListVerified returns community and fully verified reports, excluding those
// whose expiry deadline has already passed.
func (r *reportRepository) ListVerified(offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Preload("User").
		Where("status = ? OR (status = ? AND (expires_at IS NULL OR expires_at > ?))",
			models.ReportStatusFullyVerified, models.ReportStatusCommunityVerified, time.Now()).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

// Search searches reports by actor name or wallet address
func (r *reportRepository) Search(query string) ([]models.Report, error) {
	var reports []models.Report
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Preload("User").
		Where("actor_name LIKE ? OR wallet_address LIKE ?", searchPattern, searchPattern).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (r *reportRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// HasVoted reports whether the user already voted on the report
func (r *reportRepository) HasVoted(userID, reportID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("user_id = ? AND report_id = ?", userID, reportID).
		Count(&count).Error
	return count > 0, err
}

// HasConfirmed reports whether the user already confirmed the report
func (r *reportRepository) HasConfirmed(userID, reportID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ReportConfirmation{}).
		Where("user_id = ? AND report_id = ?", userID, reportID).
		Count(&count).Error
	return count > 0, err
}
