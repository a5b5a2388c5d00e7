package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
)

// fakeRepo is an in-memory gamification repository mirroring the persistence
// contract: GrantXP recomputes the level from the new total, and credibility
// adjustments clamp to [0, 100] and never touch admins.
type fakeRepo struct {
	users map[uint]*models.User
}

func newFakeRepo(users ...*models.User) *fakeRepo {
	r := &fakeRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeRepo) GetUser(userID uint) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) GrantXP(userID uint, amount int) (int, int, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	u.XP += amount
	u.Level = CalculateLevel(u.XP)
	return u.XP, u.Level, nil
}

func (r *fakeRepo) AdjustCredibility(userID uint, delta int) error {
	u, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if u.IsAdmin() {
		return nil
	}
	u.CredibilityScore += delta
	if u.CredibilityScore < 0 {
		u.CredibilityScore = 0
	}
	if u.CredibilityScore > models.AdminCredibility {
		u.CredibilityScore = models.AdminCredibility
	}
	return nil
}

func TestGrantXPLevelsUp(t *testing.T) {
	repo := newFakeRepo(&models.User{ID: 1, Level: 1, CredibilityScore: models.DefaultCredibility})
	svc := NewService(repo)

	xp, level, err := svc.GrantXP(1, 490)
	require.NoError(t, err)
	assert.Equal(t, 490, xp)
	assert.Equal(t, 1, level)

	// crossing the level 2 threshold in one grant
	xp, level, err = svc.GrantXP(1, XPCommunityVerified)
	require.NoError(t, err)
	assert.Equal(t, 740, xp)
	assert.Equal(t, 2, level)
}

func TestAdjustCredibilitySkipsAdmins(t *testing.T) {
	admin := &models.User{ID: 2, Role: models.ROLE_ADMIN, CredibilityScore: 60}
	repo := newFakeRepo(admin)
	svc := NewService(repo)

	require.NoError(t, svc.AdjustCredibility(2, 5))
	assert.Equal(t, 60, admin.CredibilityScore, "admin score must stay untouched")
}

func TestAdjustCredibilityClamps(t *testing.T) {
	user := &models.User{ID: 3, Role: models.ROLE_USER, CredibilityScore: 99}
	repo := newFakeRepo(user)
	svc := NewService(repo)

	require.NoError(t, svc.AdjustCredibility(3, 10))
	assert.Equal(t, 100, user.CredibilityScore)

	require.NoError(t, svc.AdjustCredibility(3, -150))
	assert.Equal(t, 0, user.CredibilityScore)
}

func TestEffectiveCredibility(t *testing.T) {
	admin := &models.User{Role: models.ROLE_ADMIN, CredibilityScore: 10}
	assert.Equal(t, models.AdminCredibility, admin.EffectiveCredibility())

	user := &models.User{Role: models.ROLE_USER, CredibilityScore: 42}
	assert.Equal(t, 42, user.EffectiveCredibility())
}
