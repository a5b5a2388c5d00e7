package verification

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scamwatch/scamwatch/app/models"
)

// VoteOutcome is the result of recording a vote: the refreshed tallies plus
// whether this particular write flipped the report to community_verified.
// Transitioned is true for exactly one caller per transition, which makes the
// follow-up XP grant exactly-once under concurrent voters.
type VoteOutcome struct {
	Yes          int
	No           int
	Transitioned bool
}

// ConfirmOutcome is the result of recording a trusted confirmation.
type ConfirmOutcome struct {
	Confirmations int
	Transitioned  bool
}

// Repository exposes the report mutations as single atomic operations. Every
// counter update and the status recomputation it may trigger happen inside
// one transaction holding the report row lock, so concurrent callers
// serialize and transition detection is consistent with the actual write
// order.
type Repository interface {
	CreateReport(report *models.Report) error
	GetByUUID(publicID string) (*models.Report, error)
	SaveReport(report *models.Report) error

	// RecordVote inserts the vote, refreshes the tally columns and applies
	// the pending -> community_verified transition when the consensus rule
	// passes. Duplicate votes return ErrAlreadyVoted without altering tallies.
	RecordVote(userID, reportID uint, voteType string) (VoteOutcome, error)

	// AddConfirmation inserts the caller's confirmation row, bumps the
	// trusted_confirmations counter and applies the fully_verified
	// transition at the target count. Each distinct user contributes at most
	// one increment; repeats return ErrAlreadyConfirmed.
	AddConfirmation(userID, reportID uint) (ConfirmOutcome, error)

	// ForceVerify pins the report fully verified with the confirmation
	// counter at its display floor, regardless of vote state. Returns true
	// when the status actually changed.
	ForceVerify(reportID uint) (bool, error)

	// MarkExpired transitions an expirable report whose deadline has passed
	// to expired. Idempotent: a second call finds nothing to do.
	MarkExpired(reportID uint, now time.Time) (bool, error)

	RecordPollVote(userID, reportID uint, option string) error
	PollResults(reportID uint) (map[string]int, error)

	// DeleteCascade removes the report's votes, poll votes, confirmations
	// and comments, then the report row, in one transaction.
	DeleteCascade(reportID uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a verification repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *gormRepository) GetByUUID(publicID string) (*models.Report, error) {
	report, err := models.FindReportByUUID(r.db, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (r *gormRepository) SaveReport(report *models.Report) error {
	return r.db.Save(report).Error
}

func (r *gormRepository) RecordVote(userID, reportID uint, voteType string) (VoteOutcome, error) {
	var out VoteOutcome
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&report, reportID).Error; err != nil {
			return err
		}

		vote := models.Vote{UserID: userID, ReportID: reportID, VoteType: voteType}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		var yes, no int64
		if err := tx.Model(&models.Vote{}).Where("report_id = ? AND vote_type = ?", reportID, models.VoteTypeYes).Count(&yes).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Vote{}).Where("report_id = ? AND vote_type = ?", reportID, models.VoteTypeNo).Count(&no).Error; err != nil {
			return err
		}
		out.Yes, out.No = int(yes), int(no)

		updates := map[string]interface{}{"vote_yes": out.Yes, "vote_no": out.No}
		if report.Status == models.ReportStatusPending && CommunityConsensusReached(out.Yes, out.No) {
			updates["status"] = models.ReportStatusCommunityVerified
			out.Transitioned = true
		}
		return tx.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates).Error
	})
	if err != nil {
		return VoteOutcome{}, err
	}
	return out, nil
}

func (r *gormRepository) AddConfirmation(userID, reportID uint) (ConfirmOutcome, error) {
	var out ConfirmOutcome
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&report, reportID).Error; err != nil {
			return err
		}

		confirmation := models.ReportConfirmation{UserID: userID, ReportID: reportID}
		if err := tx.Create(&confirmation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyConfirmed
			}
			return err
		}

		out.Confirmations = report.TrustedConfirmations + 1
		updates := map[string]interface{}{"trusted_confirmations": out.Confirmations}
		if out.Confirmations >= models.TrustedConfirmationTarget && report.Status != models.ReportStatusFullyVerified {
			updates["status"] = models.ReportStatusFullyVerified
			updates["expires_at"] = nil
			out.Transitioned = true
		}
		return tx.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates).Error
	})
	if err != nil {
		return ConfirmOutcome{}, err
	}
	return out, nil
}

func (r *gormRepository) ForceVerify(reportID uint) (bool, error) {
	transitioned := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&report, reportID).Error; err != nil {
			return err
		}
		transitioned = report.Status != models.ReportStatusFullyVerified

		confirmations := report.TrustedConfirmations
		if confirmations < models.TrustedConfirmationTarget {
			confirmations = models.TrustedConfirmationTarget
		}
		return tx.Model(&models.Report{}).Where("id = ?", reportID).Updates(map[string]interface{}{
			"status":                models.ReportStatusFullyVerified,
			"trusted_confirmations": confirmations,
			"expires_at":            nil,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return transitioned, nil
}

func (r *gormRepository) MarkExpired(reportID uint, now time.Time) (bool, error) {
	res := r.db.Model(&models.Report{}).
		Where("id = ? AND status IN ? AND expires_at IS NOT NULL AND expires_at < ?",
			reportID,
			[]string{models.ReportStatusPending, models.ReportStatusCommunityVerified},
			now).
		Update("status", models.ReportStatusExpired)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) RecordPollVote(userID, reportID uint, option string) error {
	vote := models.PollVote{UserID: userID, ReportID: reportID, Option: option}
	if err := r.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyPolled
		}
		return err
	}
	return nil
}

func (r *gormRepository) PollResults(reportID uint) (map[string]int, error) {
	type row struct {
		Option string
		Count  int
	}
	var rows []row
	err := r.db.Model(&models.PollVote{}).
		Select("`option`, COUNT(*) as count").
		Where("report_id = ?", reportID).
		Group("`option`").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	results := make(map[string]int, len(rows))
	for _, r := range rows {
		results[r.Option] = r.Count
	}
	return results, nil
}

func (r *gormRepository) DeleteCascade(reportID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportConfirmation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, reportID).Error
	})
}
