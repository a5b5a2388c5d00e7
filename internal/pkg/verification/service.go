package verification

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
)

// Community consensus rule: a pending report becomes community verified once
// it has collected at least CommunityYesThreshold yes-votes and yes-votes
// outnumber no-votes by better than two to one.
const (
	CommunityYesThreshold = 10
	CommunityYesNoRatio   = 2
)

// CommunityConsensusReached applies the consensus rule to a vote tally.
func CommunityConsensusReached(yes, no int) bool {
	return yes >= CommunityYesThreshold && yes > no*CommunityYesNoRatio
}

// Actor is the caller of a verification operation, with its clearance
// resolved once per request.
type Actor struct {
	ID        uint
	Clearance gamification.Clearance
}

// ObjectRemover removes stored evidence objects. Failures are tolerated;
// report deletion does not depend on it succeeding.
type ObjectRemover interface {
	RemoveObjects(ctx context.Context, keys []string) error
}

// Service drives the report verification state machine.
type Service struct {
	repo     Repository
	xp       *gamification.Service
	evidence ObjectRemover
	ttl      time.Duration
}

// NewService creates a verification service. ttl is the lifetime assigned to
// new reports; zero disables expiry assignment. evidence may be nil when no
// object storage is configured.
func NewService(repo Repository, xp *gamification.Service, evidence ObjectRemover, ttl time.Duration) *Service {
	return &Service{repo: repo, xp: xp, evidence: evidence, ttl: ttl}
}

// NewServiceFromDB creates a verification service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, xp *gamification.Service, evidence ObjectRemover, ttl time.Duration) *Service {
	return NewService(NewRepository(db), xp, evidence, ttl)
}

// SubmitInput carries the user-provided fields of a new report.
type SubmitInput struct {
	ActorName     string
	WalletAddress string
	Description   string
	SocialLinks   map[string]string
	EvidenceURLs  []string
}

// Submit creates a report in pending status with zero counters and, when a
// TTL is configured, an expiry deadline. The submission XP award is a
// secondary effect: its failure is logged, the created report stands.
func (s *Service) Submit(actor Actor, in SubmitInput) (*models.Report, error) {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return nil, ErrUnauthorized
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := time.Now().Add(s.ttl)
		expiresAt = &t
	}

	report := models.NewReport(actor.ID, in.ActorName, in.WalletAddress, in.Description, in.SocialLinks, expiresAt)
	report.EvidenceURLs = in.EvidenceURLs
	if err := s.repo.CreateReport(report); err != nil {
		return nil, err
	}

	s.xp.GrantXPLogged(actor.ID, gamification.XPReportSubmitted, "report submitted")
	return report, nil
}

// Get loads a report by public id and resolves lazy expiry: a passed deadline
// on an expirable report is persisted as the expired status before the report
// is returned, so subsequent reads stay consistent. The transition never
// fires side effects.
func (s *Service) Get(publicID string) (*models.Report, error) {
	report, err := s.repo.GetByUUID(publicID)
	if err != nil {
		return nil, err
	}
	return s.resolveExpiry(report)
}

func (s *Service) resolveExpiry(report *models.Report) (*models.Report, error) {
	if !report.IsExpired(time.Now()) {
		return report, nil
	}
	if _, err := s.repo.MarkExpired(report.ID, time.Now()); err != nil {
		return nil, err
	}
	report.Status = models.ReportStatusExpired
	return report, nil
}

// CastVote records a single yes/no vote for the actor. A second vote is a
// conflict, not an overwrite. When the vote pushes a pending report over the
// consensus threshold the owner is granted the community verification XP
// bonus exactly once.
func (s *Service) CastVote(actor Actor, publicID, voteType string) (*models.Report, error) {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return nil, ErrUnauthorized
	}
	if !models.IsValidVoteType(voteType) {
		return nil, ErrInvalidVoteType
	}

	report, err := s.Get(publicID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.repo.RecordVote(actor.ID, report.ID, voteType)
	if err != nil {
		return nil, err
	}

	report.VoteYes = outcome.Yes
	report.VoteNo = outcome.No
	if outcome.Transitioned {
		report.Status = models.ReportStatusCommunityVerified
		s.xp.GrantXPLogged(report.UserID, gamification.XPCommunityVerified, "community verified")
	}
	return report, nil
}

// Confirm records a trusted confirmation. Requires trusted clearance
// (credibility >= 75 or admin). Each distinct user contributes at most one
// increment; reaching the target flips the report to fully verified, clears
// the expiry and grants the owner the full verification XP bonus exactly
// once. Expired and dismissed reports are closed to confirmation.
func (s *Service) Confirm(actor Actor, publicID string) (*models.Report, error) {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return nil, ErrUnauthorized
	}
	if !actor.Clearance.AtLeast(gamification.ClearanceTrusted) {
		return nil, ErrLowClearance
	}

	report, err := s.Get(publicID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, ErrReportClosed
	}

	outcome, err := s.repo.AddConfirmation(actor.ID, report.ID)
	if err != nil {
		return nil, err
	}

	report.TrustedConfirmations = outcome.Confirmations
	if outcome.Transitioned {
		report.Status = models.ReportStatusFullyVerified
		report.ExpiresAt = nil
		s.xp.GrantXPLogged(report.UserID, gamification.XPFullyVerified, "fully verified")
	}
	return report, nil
}

// AdminOverride pins a report fully verified regardless of its vote state,
// with the confirmation counter at its display floor and the expiry cleared.
// Requires the strict admin identity, not the credibility-based clearance.
// Terminal reports are not lifted: reviving an expired or dismissed report
// takes a resubmission, not an override.
func (s *Service) AdminOverride(actor Actor, publicID string) (*models.Report, error) {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return nil, ErrUnauthorized
	}
	if actor.Clearance != gamification.ClearanceAdmin {
		return nil, ErrNotAdmin
	}

	report, err := s.Get(publicID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, ErrReportClosed
	}

	transitioned, err := s.repo.ForceVerify(report.ID)
	if err != nil {
		return nil, err
	}

	report.Status = models.ReportStatusFullyVerified
	report.ExpiresAt = nil
	if report.TrustedConfirmations < models.TrustedConfirmationTarget {
		report.TrustedConfirmations = models.TrustedConfirmationTarget
	}
	if transitioned {
		s.xp.GrantXPLogged(report.UserID, gamification.XPFullyVerified, "admin override")
	}
	return report, nil
}

// CastPollVote records a vote in the informational poll attached to a
// report. One vote per user per report; no influence on status or XP.
func (s *Service) CastPollVote(actor Actor, publicID, option string) error {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return ErrUnauthorized
	}
	if option == "" {
		return ErrEmptyPollOption
	}

	report, err := s.Get(publicID)
	if err != nil {
		return err
	}
	return s.repo.RecordPollVote(actor.ID, report.ID, option)
}

// PollResults returns the option tallies of a report's poll.
func (s *Service) PollResults(publicID string) (map[string]int, error) {
	report, err := s.repo.GetByUUID(publicID)
	if err != nil {
		return nil, err
	}
	return s.repo.PollResults(report.ID)
}

// Update edits a pending report's user-provided fields. Owner only; new
// evidence locators are appended, never replaced.
func (s *Service) Update(actor Actor, publicID string, in SubmitInput) (*models.Report, error) {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return nil, ErrUnauthorized
	}

	report, err := s.Get(publicID)
	if err != nil {
		return nil, err
	}
	if report.UserID != actor.ID {
		return nil, ErrNotOwner
	}
	if report.Status != models.ReportStatusPending {
		return nil, ErrNotPending
	}

	report.ActorName = in.ActorName
	report.WalletAddress = in.WalletAddress
	report.Description = in.Description
	report.SocialLinks = in.SocialLinks
	report.EvidenceURLs = append(report.EvidenceURLs, in.EvidenceURLs...)
	if err := s.repo.SaveReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Delete removes a report and all of its child records. Owners may delete
// their own pending reports; admins may delete any report. Evidence object
// cleanup runs after the database cascade and is best-effort: a storage
// failure is logged and the deletion still succeeds.
func (s *Service) Delete(ctx context.Context, actor Actor, publicID string) error {
	if !actor.Clearance.AtLeast(gamification.ClearanceMember) {
		return ErrUnauthorized
	}

	report, err := s.repo.GetByUUID(publicID)
	if err != nil {
		return err
	}

	isAdmin := actor.Clearance == gamification.ClearanceAdmin
	if report.UserID != actor.ID && !isAdmin {
		return ErrNotOwner
	}
	if report.Status != models.ReportStatusPending && !isAdmin {
		return ErrNotPending
	}

	if err := s.repo.DeleteCascade(report.ID); err != nil {
		return err
	}

	if s.evidence != nil && len(report.EvidenceURLs) > 0 {
		if err := s.evidence.RemoveObjects(ctx, report.EvidenceURLs); err != nil {
			log.Warnf("[Verification] evidence cleanup for report %s failed: %v", report.UUID, err)
		}
	}
	return nil
}
