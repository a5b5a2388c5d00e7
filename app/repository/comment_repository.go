package repository

import (
	"github.com/scamwatch/scamwatch/app/models"
	"gorm.io/gorm"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.ReportComment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*models.ReportComment, error) {
	var comment models.ReportComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByReportID returns the report's comments in creation order, with their
// authors preloaded, ready for threading via models.BuildCommentTree.
func (r *commentRepository) GetByReportID(reportID uint) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	err := r.db.Preload("User").
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.ReportComment{}, id).Error
}

func (r *commentRepository) CountByReportID(reportID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ReportComment{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}
