package gamification

import (
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
)

// XP awards issued by the platform. All call sites grant positive amounts;
// the engine itself does not forbid negative ones.
const (
	XPReportSubmitted   = 40
	XPCommunityVerified = 250
	XPFullyVerified     = 500
	XPProfileCompleted  = 100
)

// Service is the reputation engine: it turns XP awards into persisted
// xp/level pairs and applies bounded credibility adjustments.
type Service struct {
	repo Repository
}

// NewService creates a gamification service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a gamification service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// GrantXP credits the amount to the user and recomputes the level in the same
// write. Returns the new xp and level.
func (s *Service) GrantXP(userID uint, amount int) (int, int, error) {
	newXP, newLevel, err := s.repo.GrantXP(userID, amount)
	if err != nil {
		return 0, 0, err
	}
	return newXP, newLevel, nil
}

// GrantXPLogged is GrantXP for secondary side effects: a failure is logged
// and swallowed so it never rolls back the primary operation that earned the
// award.
func (s *Service) GrantXPLogged(userID uint, amount int, reason string) {
	if _, _, err := s.GrantXP(userID, amount); err != nil {
		log.Errorf("[Gamification] XP grant of %d to user %d failed (%s): %v", amount, userID, reason, err)
	}
}

// AdjustCredibility applies a clamped delta to the user's credibility score.
// Admin accounts are never mutated; their effective score is constant.
func (s *Service) AdjustCredibility(userID uint, delta int) error {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return nil
	}
	return s.repo.AdjustCredibility(userID, delta)
}

// Profile returns the gamification view of a user: xp, level, effective
// credibility and progress to the next level.
type Profile struct {
	XP          int     `json:"xp"`
	Level       int     `json:"level"`
	Credibility int     `json:"credibility_score"`
	Progress    float64 `json:"xp_progress"`
	NextLevelXP *int    `json:"next_level_xp,omitempty"`
}

// ProfileFor builds the gamification view for a loaded user.
func ProfileFor(u *models.User) Profile {
	p := Profile{
		XP:          u.XP,
		Level:       u.Level,
		Credibility: u.EffectiveCredibility(),
		Progress:    XPProgress(u.XP, u.Level),
	}
	if next, ok := XPForNextLevel(u.Level); ok {
		p.NextLevelXP = &next
	}
	return p
}
