package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
)

// fakeUserStore backs the gamification service during verification tests and
// records every XP grant so transition bonuses can be asserted exactly-once.
type fakeUserStore struct {
	users  map[uint]*models.User
	grants []int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uint]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUser(userID uint) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) GrantXP(userID uint, amount int) (int, int, error) {
	u, ok := s.users[userID]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	u.XP += amount
	u.Level = gamification.CalculateLevel(u.XP)
	s.grants = append(s.grants, amount)
	return u.XP, u.Level, nil
}

func (s *fakeUserStore) AdjustCredibility(userID uint, delta int) error {
	return nil
}

// fakeRepo is an in-memory verification repository honoring the atomicity
// contract: duplicate participation is a conflict and status transitions are
// computed together with the counter updates.
type fakeRepo struct {
	reports   map[uint]*models.Report
	byUUID    map[string]uint
	votes     map[uint]map[uint]string // reportID -> userID -> type
	confirms  map[uint]map[uint]bool
	pollVotes map[uint]map[uint]string
	nextID    uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reports:   map[uint]*models.Report{},
		byUUID:    map[string]uint{},
		votes:     map[uint]map[uint]string{},
		confirms:  map[uint]map[uint]bool{},
		pollVotes: map[uint]map[uint]string{},
	}
}

func (r *fakeRepo) CreateReport(report *models.Report) error {
	r.nextID++
	report.ID = r.nextID
	r.reports[report.ID] = report
	r.byUUID[report.UUID] = report.ID
	r.votes[report.ID] = map[uint]string{}
	r.confirms[report.ID] = map[uint]bool{}
	r.pollVotes[report.ID] = map[uint]string{}
	return nil
}

func (r *fakeRepo) GetByUUID(publicID string) (*models.Report, error) {
	id, ok := r.byUUID[publicID]
	if !ok {
		return nil, ErrReportNotFound
	}
	clone := *r.reports[id]
	return &clone, nil
}

func (r *fakeRepo) SaveReport(report *models.Report) error {
	r.reports[report.ID] = report
	return nil
}

func (r *fakeRepo) RecordVote(userID, reportID uint, voteType string) (VoteOutcome, error) {
	if _, dup := r.votes[reportID][userID]; dup {
		return VoteOutcome{}, ErrAlreadyVoted
	}
	r.votes[reportID][userID] = voteType

	report := r.reports[reportID]
	yes, no := 0, 0
	for _, vt := range r.votes[reportID] {
		if vt == models.VoteTypeYes {
			yes++
		} else {
			no++
		}
	}
	report.VoteYes, report.VoteNo = yes, no

	outcome := VoteOutcome{Yes: yes, No: no}
	if report.Status == models.ReportStatusPending && CommunityConsensusReached(yes, no) {
		report.Status = models.ReportStatusCommunityVerified
		outcome.Transitioned = true
	}
	return outcome, nil
}

func (r *fakeRepo) AddConfirmation(userID, reportID uint) (ConfirmOutcome, error) {
	if r.confirms[reportID][userID] {
		return ConfirmOutcome{}, ErrAlreadyConfirmed
	}
	r.confirms[reportID][userID] = true

	report := r.reports[reportID]
	report.TrustedConfirmations = len(r.confirms[reportID])

	outcome := ConfirmOutcome{Confirmations: report.TrustedConfirmations}
	if report.Status != models.ReportStatusFullyVerified &&
		report.TrustedConfirmations >= models.TrustedConfirmationTarget {
		report.Status = models.ReportStatusFullyVerified
		report.ExpiresAt = nil
		outcome.Transitioned = true
	}
	return outcome, nil
}

func (r *fakeRepo) ForceVerify(reportID uint) (bool, error) {
	report := r.reports[reportID]
	if report.Status == models.ReportStatusFullyVerified {
		return false, nil
	}
	report.Status = models.ReportStatusFullyVerified
	report.ExpiresAt = nil
	if report.TrustedConfirmations < models.TrustedConfirmationTarget {
		report.TrustedConfirmations = models.TrustedConfirmationTarget
	}
	return true, nil
}

func (r *fakeRepo) MarkExpired(reportID uint, now time.Time) (bool, error) {
	report := r.reports[reportID]
	if !report.IsExpirable() || !report.IsExpired(now) {
		return false, nil
	}
	report.Status = models.ReportStatusExpired
	return true, nil
}

func (r *fakeRepo) RecordPollVote(userID, reportID uint, option string) error {
	if _, dup := r.pollVotes[reportID][userID]; dup {
		return ErrAlreadyPolled
	}
	r.pollVotes[reportID][userID] = option
	return nil
}

func (r *fakeRepo) PollResults(reportID uint) (map[string]int, error) {
	results := map[string]int{}
	for _, option := range r.pollVotes[reportID] {
		results[option]++
	}
	return results, nil
}

func (r *fakeRepo) DeleteCascade(reportID uint) error {
	report, ok := r.reports[reportID]
	if !ok {
		return ErrReportNotFound
	}
	delete(r.byUUID, report.UUID)
	delete(r.reports, reportID)
	delete(r.votes, reportID)
	delete(r.confirms, reportID)
	delete(r.pollVotes, reportID)
	return nil
}

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) RemoveObjects(ctx context.Context, keys []string) error {
	f.removed = append(f.removed, keys...)
	return f.err
}

func newTestService(ttl time.Duration, users ...*models.User) (*Service, *fakeRepo, *fakeUserStore) {
	repo := newFakeRepo()
	store := newFakeUserStore(users...)
	svc := NewService(repo, gamification.NewService(store), nil, ttl)
	return svc, repo, store
}

func member(id uint) Actor  { return Actor{ID: id, Clearance: gamification.ClearanceMember} }
func trusted(id uint) Actor { return Actor{ID: id, Clearance: gamification.ClearanceTrusted} }
func admin(id uint) Actor   { return Actor{ID: id, Clearance: gamification.ClearanceAdmin} }

func testUser(id uint) *models.User {
	return &models.User{ID: id, Role: models.ROLE_USER, Level: 1, CredibilityScore: models.DefaultCredibility}
}

func submitReport(t *testing.T, svc *Service, owner uint) *models.Report {
	t.Helper()
	report, err := svc.Submit(member(owner), SubmitInput{
		ActorName:   "shady-mixer.io",
		Description: "took the deposit and went dark, wallet drained within minutes",
	})
	require.NoError(t, err)
	return report
}

func TestSubmitGrantsXPAndSetsExpiry(t *testing.T) {
	owner := testUser(1)
	svc, _, store := newTestService(30*24*time.Hour, owner)

	report := submitReport(t, svc, 1)

	assert.Equal(t, models.ReportStatusPending, report.Status)
	require.NotNil(t, report.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *report.ExpiresAt, time.Minute)
	assert.Equal(t, []int{gamification.XPReportSubmitted}, store.grants)
}

func TestSubmitRequiresMember(t *testing.T) {
	svc, _, _ := newTestService(0)
	_, err := svc.Submit(Actor{Clearance: gamification.ClearanceAnonymous}, SubmitInput{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCastVoteDuplicateConflicts(t *testing.T) {
	svc, _, _ := newTestService(0, testUser(1), testUser(2))
	report := submitReport(t, svc, 1)

	_, err := svc.CastVote(member(2), report.UUID, models.VoteTypeYes)
	require.NoError(t, err)

	_, err = svc.CastVote(member(2), report.UUID, models.VoteTypeNo)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestCastVoteRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	_, err := svc.CastVote(member(1), report.UUID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}

func TestCommunityConsensusTransition(t *testing.T) {
	owner := testUser(1)
	svc, _, store := newTestService(0, owner)
	report := submitReport(t, svc, 1)
	store.grants = nil

	// four no-votes keep the ratio rule in play
	for id := uint(100); id < 104; id++ {
		_, err := svc.CastVote(member(id), report.UUID, models.VoteTypeNo)
		require.NoError(t, err)
	}
	// nine yes-votes: below the absolute threshold, still pending
	for id := uint(2); id < 11; id++ {
		updated, err := svc.CastVote(member(id), report.UUID, models.VoteTypeYes)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusPending, updated.Status)
	}
	assert.Empty(t, store.grants)

	// the tenth yes-vote crosses it: 10 yes vs 4 no passes both rules
	updated, err := svc.CastVote(member(11), report.UUID, models.VoteTypeYes)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusCommunityVerified, updated.Status)
	assert.Equal(t, []int{gamification.XPCommunityVerified}, store.grants)

	// further votes never re-grant the bonus
	_, err = svc.CastVote(member(12), report.UUID, models.VoteTypeYes)
	require.NoError(t, err)
	assert.Equal(t, []int{gamification.XPCommunityVerified}, store.grants)
}

func TestConsensusRatioRule(t *testing.T) {
	tests := []struct {
		yes, no int
		want    bool
	}{
		{yes: 9, no: 0, want: false},
		{yes: 10, no: 0, want: true},
		{yes: 10, no: 4, want: true},
		{yes: 10, no: 5, want: false},
		{yes: 21, no: 10, want: true},
		{yes: 20, no: 10, want: false},
	}
	for _, tt := range tests {
		if got := CommunityConsensusReached(tt.yes, tt.no); got != tt.want {
			t.Fatalf("CommunityConsensusReached(%d, %d) = %v, want %v", tt.yes, tt.no, got, tt.want)
		}
	}
}

func TestConfirmRequiresTrustedClearance(t *testing.T) {
	svc, _, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	_, err := svc.Confirm(member(2), report.UUID)
	assert.ErrorIs(t, err, ErrLowClearance)
}

func TestConfirmTargetTransition(t *testing.T) {
	owner := testUser(1)
	svc, repo, store := newTestService(30*24*time.Hour, owner)
	report := submitReport(t, svc, 1)
	store.grants = nil

	for id := uint(2); id < 4; id++ {
		updated, err := svc.Confirm(trusted(id), report.UUID)
		require.NoError(t, err)
		assert.NotEqual(t, models.ReportStatusFullyVerified, updated.Status)
	}
	assert.Empty(t, store.grants)

	updated, err := svc.Confirm(trusted(4), report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFullyVerified, updated.Status)
	assert.Equal(t, 3, updated.TrustedConfirmations)
	assert.Nil(t, updated.ExpiresAt, "full verification clears the expiry deadline")
	assert.Equal(t, []int{gamification.XPFullyVerified}, store.grants)

	// the same user confirming again is a conflict
	_, err = svc.Confirm(trusted(4), report.UUID)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	stored, err := repo.GetByUUID(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFullyVerified, stored.Status)
}

func TestAdminOverride(t *testing.T) {
	owner := testUser(1)
	svc, _, store := newTestService(0, owner)
	report := submitReport(t, svc, 1)
	store.grants = nil

	_, err := svc.AdminOverride(trusted(2), report.UUID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	updated, err := svc.AdminOverride(admin(3), report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFullyVerified, updated.Status)
	assert.Equal(t, models.TrustedConfirmationTarget, updated.TrustedConfirmations)
	assert.Equal(t, []int{gamification.XPFullyVerified}, store.grants)

	// idempotent: a second override changes nothing and grants nothing
	_, err = svc.AdminOverride(admin(3), report.UUID)
	require.NoError(t, err)
	assert.Equal(t, []int{gamification.XPFullyVerified}, store.grants)
}

func TestTerminalReportsStayTerminal(t *testing.T) {
	svc, repo, store := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)
	store.grants = nil

	past := time.Now().Add(-time.Hour)
	repo.reports[report.ID].ExpiresAt = &past

	// the expired report is closed to confirmation and to admin override
	_, err := svc.Confirm(trusted(2), report.UUID)
	assert.ErrorIs(t, err, ErrReportClosed)

	_, err = svc.AdminOverride(admin(3), report.UUID)
	assert.ErrorIs(t, err, ErrReportClosed)

	assert.Empty(t, store.grants)

	stored, err := repo.GetByUUID(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusExpired, stored.Status)

	// dismissed is equally closed
	repo.reports[report.ID].Status = models.ReportStatusDismissed
	repo.reports[report.ID].ExpiresAt = nil
	_, err = svc.Confirm(trusted(2), report.UUID)
	assert.ErrorIs(t, err, ErrReportClosed)
	_, err = svc.AdminOverride(admin(3), report.UUID)
	assert.ErrorIs(t, err, ErrReportClosed)
}

func TestLazyExpiryOnRead(t *testing.T) {
	svc, repo, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	past := time.Now().Add(-time.Hour)
	repo.reports[report.ID].ExpiresAt = &past

	got, err := svc.Get(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusExpired, got.Status)

	// persisted, not just decorated on the way out
	stored, err := repo.GetByUUID(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusExpired, stored.Status)
}

func TestFullyVerifiedNeverExpires(t *testing.T) {
	svc, repo, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	past := time.Now().Add(-time.Hour)
	repo.reports[report.ID].Status = models.ReportStatusFullyVerified
	repo.reports[report.ID].ExpiresAt = &past

	got, err := svc.Get(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFullyVerified, got.Status)
}

func TestUpdateOwnerAndStatusChecks(t *testing.T) {
	svc, repo, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	_, err := svc.Update(member(2), report.UUID, SubmitInput{ActorName: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrNotOwner)

	repo.reports[report.ID].Status = models.ReportStatusCommunityVerified
	_, err = svc.Update(member(1), report.UUID, SubmitInput{ActorName: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrNotPending)

	repo.reports[report.ID].Status = models.ReportStatusPending
	updated, err := svc.Update(member(1), report.UUID, SubmitInput{
		ActorName:    "shady-mixer.io",
		Description:  "same scheme, second wallet surfaced",
		EvidenceURLs: []string{"https://cdn.example/ev2.png"},
	})
	require.NoError(t, err)
	assert.Len(t, updated.EvidenceURLs, 1)
}

func TestDeletePermissions(t *testing.T) {
	svc, repo, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	err := svc.Delete(context.Background(), member(2), report.UUID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// owner cannot delete once the report left pending
	repo.reports[report.ID].Status = models.ReportStatusCommunityVerified
	err = svc.Delete(context.Background(), member(1), report.UUID)
	assert.ErrorIs(t, err, ErrNotPending)

	// admin deletes regardless of status
	err = svc.Delete(context.Background(), admin(3), report.UUID)
	require.NoError(t, err)
	_, err = svc.Get(report.UUID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDeleteEvidenceCleanupBestEffort(t *testing.T) {
	owner := testUser(1)
	repo := newFakeRepo()
	remover := &fakeRemover{err: errors.New("bucket unreachable")}
	svc := NewService(repo, gamification.NewService(newFakeUserStore(owner)), remover, 0)

	report, err := svc.Submit(member(1), SubmitInput{
		ActorName:    "rugpull.finance",
		Description:  "liquidity pulled right after launch, socials deleted",
		EvidenceURLs: []string{"https://cdn.example/ev1.png"},
	})
	require.NoError(t, err)

	// storage failure must not block the deletion
	require.NoError(t, svc.Delete(context.Background(), member(1), report.UUID))
	assert.Equal(t, []string{"https://cdn.example/ev1.png"}, remover.removed)
	_, err = svc.Get(report.UUID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestPollVote(t *testing.T) {
	svc, _, _ := newTestService(0, testUser(1))
	report := submitReport(t, svc, 1)

	require.NoError(t, svc.CastPollVote(member(2), report.UUID, "lost_funds"))
	require.NoError(t, svc.CastPollVote(member(3), report.UUID, "lost_funds"))
	require.NoError(t, svc.CastPollVote(member(4), report.UUID, "near_miss"))

	err := svc.CastPollVote(member(2), report.UUID, "near_miss")
	assert.ErrorIs(t, err, ErrAlreadyPolled)

	err = svc.CastPollVote(member(5), report.UUID, "")
	assert.ErrorIs(t, err, ErrEmptyPollOption)

	results, err := svc.PollResults(report.UUID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"lost_funds": 2, "near_miss": 1}, results)
}

func TestFullLifecycleXPTotal(t *testing.T) {
	owner := testUser(1)
	svc, _, store := newTestService(0, owner)
	report := submitReport(t, svc, 1)

	for id := uint(2); id < 12; id++ {
		_, err := svc.CastVote(member(id), report.UUID, models.VoteTypeYes)
		require.NoError(t, err)
	}
	for id := uint(20); id < 23; id++ {
		_, err := svc.Confirm(trusted(id), report.UUID)
		require.NoError(t, err)
	}

	total := 0
	for _, g := range store.grants {
		total += g
	}
	assert.Equal(t, gamification.XPReportSubmitted+gamification.XPCommunityVerified+gamification.XPFullyVerified, total)
	assert.Equal(t, 2, store.users[1].Level, "790 XP lands in level 2")
}
