package feedback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
)

type pairKey struct{ from, to uint }

// fakeRepo keeps one live record per pair, mirroring Replace semantics.
// insertConflict simulates a concurrent submission for the same pair winning
// the unique-index race between the cooldown read and the insert.
type fakeRepo struct {
	records        map[pairKey]*models.UserFeedback
	nextID         uint
	insertConflict bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[pairKey]*models.UserFeedback{}}
}

func (r *fakeRepo) FindLatest(fromUserID, toUserID uint) (*models.UserFeedback, error) {
	rec, ok := r.records[pairKey{fromUserID, toUserID}]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *fakeRepo) Replace(record *models.UserFeedback) error {
	if r.insertConflict {
		return ErrCooldownActive
	}
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.records[pairKey{record.FromUserID, record.ToUserID}] = record
	return nil
}

func (r *fakeRepo) ListForUser(toUserID uint) ([]models.UserFeedback, error) {
	var out []models.UserFeedback
	for key, rec := range r.records {
		if key.to == toUserID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) SummaryForUser(toUserID uint) (models.FeedbackSummary, error) {
	var s models.FeedbackSummary
	for key, rec := range r.records {
		if key.to != toUserID {
			continue
		}
		s.Total++
		switch rec.Type {
		case models.FeedbackTypePositive:
			s.Positive++
		case models.FeedbackTypeNegative:
			s.Negative++
		case models.FeedbackTypeNeutral:
			s.Neutral++
		}
	}
	return s, nil
}

type fakeCredibilityStore struct {
	users map[uint]*models.User
}

func (s *fakeCredibilityStore) GetUser(userID uint) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeCredibilityStore) GrantXP(userID uint, amount int) (int, int, error) {
	return 0, 0, nil
}

func (s *fakeCredibilityStore) AdjustCredibility(userID uint, delta int) error {
	u := s.users[userID]
	u.CredibilityScore += delta
	if u.CredibilityScore > models.AdminCredibility {
		u.CredibilityScore = models.AdminCredibility
	}
	if u.CredibilityScore < 0 {
		u.CredibilityScore = 0
	}
	return nil
}

func newTestService(users ...*models.User) (*Service, *fakeRepo, *fakeCredibilityStore) {
	store := &fakeCredibilityStore{users: map[uint]*models.User{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	repo := newFakeRepo()
	return NewService(repo, gamification.NewService(store)), repo, store
}

func regularUser(id uint) *models.User {
	return &models.User{ID: id, Role: models.ROLE_USER, CredibilityScore: models.DefaultCredibility}
}

func TestSubmitRejectsSelfFeedback(t *testing.T) {
	svc, _, _ := newTestService(regularUser(1))
	_, err := svc.Submit(1, SubmitInput{ToUserID: 1, Type: models.FeedbackTypePositive})
	assert.ErrorIs(t, err, ErrSelfFeedback)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(regularUser(1), regularUser(2))
	_, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: "glowing"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestNegativeFeedbackCommentLength(t *testing.T) {
	svc, _, _ := newTestService(regularUser(1), regularUser(2))

	_, err := svc.Submit(1, SubmitInput{
		ToUserID:    2,
		Type:        models.FeedbackTypeNegative,
		CommentText: strings.Repeat("x", models.FeedbackNegativeMinComment-1),
	})
	assert.ErrorIs(t, err, ErrCommentTooShort)

	// 49 three-byte runes: long enough in bytes, still short in characters
	_, err = svc.Submit(1, SubmitInput{
		ToUserID:    2,
		Type:        models.FeedbackTypeNegative,
		CommentText: strings.Repeat("包", models.FeedbackNegativeMinComment-1),
	})
	assert.ErrorIs(t, err, ErrCommentTooShort)

	rec, err := svc.Submit(1, SubmitInput{
		ToUserID:    2,
		Type:        models.FeedbackTypeNegative,
		CommentText: strings.Repeat("x", models.FeedbackNegativeMinComment),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.CommentText)
}

func TestPositiveFeedbackCreditsRecipient(t *testing.T) {
	recipient := regularUser(2)
	svc, _, store := newTestService(regularUser(1), recipient)

	_, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypePositive})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCredibility+PositiveCredibilityDelta, store.users[2].CredibilityScore)
}

func TestNeutralFeedbackLeavesCredibilityAlone(t *testing.T) {
	svc, _, store := newTestService(regularUser(1), regularUser(2))

	_, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypeNeutral})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCredibility, store.users[2].CredibilityScore)
}

func TestCooldownBlocksAndThenReplaces(t *testing.T) {
	svc, repo, _ := newTestService(regularUser(1), regularUser(2))

	first, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypePositive})
	require.NoError(t, err)

	// a fresh record blocks the pair
	_, err = svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypeNeutral})
	assert.ErrorIs(t, err, ErrCooldownActive)

	// the reverse direction is an independent pair
	_, err = svc.Submit(2, SubmitInput{ToUserID: 1, Type: models.FeedbackTypePositive})
	require.NoError(t, err)

	// age the record past the cooldown: the resubmission replaces it
	aged := time.Now().Add(-models.FeedbackCooldown - time.Hour)
	repo.records[pairKey{1, 2}].CreatedAt = aged

	second, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypeNeutral})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	summary, err := repo.SummaryForUser(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Total, "replace keeps one live record per pair")
	assert.Equal(t, int64(1), summary.Neutral)
}

func TestConcurrentSubmissionLosesToUniquePair(t *testing.T) {
	svc, repo, store := newTestService(regularUser(1), regularUser(2))

	// the cooldown read sees no record, but another submission for the same
	// pair lands first; the storage conflict must surface as the cooldown
	// error and skip the credibility credit
	repo.insertConflict = true
	_, err := svc.Submit(1, SubmitInput{ToUserID: 2, Type: models.FeedbackTypePositive})
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Equal(t, models.DefaultCredibility, store.users[2].CredibilityScore)
}

func TestForUser(t *testing.T) {
	svc, _, _ := newTestService(regularUser(1), regularUser(2), regularUser(3))

	_, err := svc.Submit(1, SubmitInput{ToUserID: 3, Type: models.FeedbackTypePositive})
	require.NoError(t, err)
	_, err = svc.Submit(2, SubmitInput{ToUserID: 3, Type: models.FeedbackTypeNegative,
		CommentText: strings.Repeat("slow to respond and misleading evidence links ", 2)})
	require.NoError(t, err)

	records, summary, err := svc.ForUser(3)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, int64(1), summary.Positive)
	assert.Equal(t, int64(1), summary.Negative)
}
