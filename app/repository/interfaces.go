package repository

import (
	"github.com/scamwatch/scamwatch/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UsernameTaken(username string, exceptID uint) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	Leaderboard(limit int) ([]models.User, error)
}

// ReportRepository defines the interface for report listing and lookups used
// by the read-side handlers. Status mutations go through the verification
// service, not this repository.
type ReportRepository interface {
	GetByID(id uint) (*models.Report, error)
	GetByUUID(publicID string) (*models.Report, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Report, error)
	List(offset, limit int) ([]models.Report, error)
	ListByStatus(statuses []string, offset, limit int) ([]models.Report, error)
	ListVerified(offset, limit int) ([]models.Report, error)
	Search(query string) ([]models.Report, error)
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
	HasVoted(userID, reportID uint) (bool, error)
	HasConfirmed(userID, reportID uint) (bool, error)
}

// CommentRepository defines the interface for report comment operations
type CommentRepository interface {
	Create(comment *models.ReportComment) error
	GetByID(id uint) (*models.ReportComment, error)
	GetByReportID(reportID uint) ([]models.ReportComment, error)
	Delete(id uint) error
	CountByReportID(reportID uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Report  ReportRepository
	Comment CommentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Report:  NewReportRepository(db),
		Comment: NewCommentRepository(db),
	}
}
