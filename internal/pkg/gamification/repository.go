package gamification

import (
	"github.com/scamwatch/scamwatch/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the profile mutations used by the gamification service.
//
// GrantXP must persist the new xp together with the matching recomputed level
// in a single atomic write; a reader must never observe one without the
// other. AdjustCredibility must be an atomic increment-and-clamp against the
// latest persisted score, not a stale snapshot.
type Repository interface {
	GetUser(userID uint) (*models.User, error)
	GrantXP(userID uint, amount int) (newXP int, newLevel int, err error)
	AdjustCredibility(userID uint, delta int) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gamification repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GrantXP adds XP and recomputes the level inside one transaction holding a
// row lock, so xp and level always stay consistent under concurrent grants.
func (r *gormRepository) GrantXP(userID uint, amount int) (int, int, error) {
	var newXP, newLevel int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		newXP = user.XP + amount
		newLevel = CalculateLevel(newXP)
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"xp": newXP, "level": newLevel}).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return newXP, newLevel, nil
}

// AdjustCredibility pushes the clamp into the database so concurrent deltas
// never lose updates. Admin rows are excluded: their effective credibility is
// a constant and the stored score stays untouched.
func (r *gormRepository) AdjustCredibility(userID uint, delta int) error {
	return r.db.Model(&models.User{}).
		Where("id = ? AND role <> ?", userID, models.ROLE_ADMIN).
		Update("credibility_score", gorm.Expr("LEAST(?, GREATEST(?, credibility_score + ?))",
			models.AdminCredibility, 0, delta)).Error
}
