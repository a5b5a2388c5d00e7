package feedback

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
)

// PositiveCredibilityDelta is applied to the recipient of positive feedback.
// Negative and neutral feedback carry no automated credibility effect;
// punishing scores requires multi-party corroboration and is deferred.
const PositiveCredibilityDelta = 2

var (
	ErrUnauthorized    = errors.New("authentication required")
	ErrSelfFeedback    = errors.New("you cannot leave feedback for yourself")
	ErrInvalidType     = errors.New("feedback type must be positive, negative or neutral")
	ErrCommentTooShort = errors.New("negative feedback requires a comment of at least 50 characters")
	ErrCooldownActive  = errors.New("you can only leave feedback once per 30 days for this user")
)

// Service enforces the feedback cooldown policy and applies the credibility
// side effect of positive feedback.
type Service struct {
	repo        Repository
	credibility *gamification.Service
}

// NewService creates a feedback service from an injected repository.
func NewService(repo Repository, credibility *gamification.Service) *Service {
	return &Service{repo: repo, credibility: credibility}
}

// NewServiceFromDB creates a feedback service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, credibility *gamification.Service) *Service {
	return NewService(NewRepository(db), credibility)
}

// SubmitInput carries a feedback submission.
type SubmitInput struct {
	ToUserID        uint
	Type            string
	CommentText     string
	RelatedReportID *uint
}

// Submit validates and stores feedback from one user to another.
//
// Rules: no self-feedback; negative feedback needs a comment of at least 50
// characters; one live record per (from, to) pair with a 30-day cooldown,
// where a submission after the cooldown replaces the stale record. Positive
// feedback credits the recipient's credibility synchronously; a failure there
// is logged without revoking the stored feedback.
func (s *Service) Submit(fromUserID uint, in SubmitInput) (*models.UserFeedback, error) {
	if fromUserID == 0 {
		return nil, ErrUnauthorized
	}
	if in.ToUserID == fromUserID {
		return nil, ErrSelfFeedback
	}
	if !models.IsValidFeedbackType(in.Type) {
		return nil, ErrInvalidType
	}
	// the minimum length is measured in runes, not bytes
	if in.Type == models.FeedbackTypeNegative && utf8.RuneCountInString(in.CommentText) < models.FeedbackNegativeMinComment {
		return nil, ErrCommentTooShort
	}

	latest, err := s.repo.FindLatest(fromUserID, in.ToUserID)
	if err != nil {
		return nil, err
	}
	if latest != nil && time.Since(latest.CreatedAt) < models.FeedbackCooldown {
		return nil, ErrCooldownActive
	}

	record := &models.UserFeedback{
		FromUserID:      fromUserID,
		ToUserID:        in.ToUserID,
		Type:            in.Type,
		RelatedReportID: in.RelatedReportID,
	}
	if in.CommentText != "" {
		comment := in.CommentText
		record.CommentText = &comment
	}

	if err := s.repo.Replace(record); err != nil {
		return nil, err
	}

	if in.Type == models.FeedbackTypePositive {
		if err := s.credibility.AdjustCredibility(in.ToUserID, PositiveCredibilityDelta); err != nil {
			log.Errorf("[Feedback] credibility adjustment for user %d failed: %v", in.ToUserID, err)
		}
	}
	return record, nil
}

// ForUser returns the feedback received by a user together with the summary
// counts shown on the profile page.
func (s *Service) ForUser(toUserID uint) ([]models.UserFeedback, models.FeedbackSummary, error) {
	records, err := s.repo.ListForUser(toUserID)
	if err != nil {
		return nil, models.FeedbackSummary{}, err
	}
	summary, err := s.repo.SummaryForUser(toUserID)
	if err != nil {
		return nil, models.FeedbackSummary{}, err
	}
	return records, summary, nil
}
