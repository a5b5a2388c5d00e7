package gamification

import (
	"github.com/scamwatch/scamwatch/app/models"
)

// Clearance is the capability level resolved once per request and branched on
// everywhere afterwards, instead of re-checking roles and scores per
// operation.
type Clearance int

const (
	ClearanceAnonymous Clearance = iota
	ClearanceMember
	ClearanceTrusted
	ClearanceAdmin
)

// String implements fmt.Stringer for log output.
func (c Clearance) String() string {
	switch c {
	case ClearanceAdmin:
		return "admin"
	case ClearanceTrusted:
		return "trusted"
	case ClearanceMember:
		return "member"
	default:
		return "anonymous"
	}
}

// ResolveClearance maps a user profile to its clearance level. A nil user is
// anonymous; trusted requires an effective credibility of at least
// models.TrustedCredibility.
func ResolveClearance(u *models.User) Clearance {
	if u == nil {
		return ClearanceAnonymous
	}
	if u.IsAdmin() {
		return ClearanceAdmin
	}
	if u.EffectiveCredibility() >= models.TrustedCredibility {
		return ClearanceTrusted
	}
	return ClearanceMember
}

// AtLeast reports whether the clearance meets or exceeds the required level.
func (c Clearance) AtLeast(required Clearance) bool {
	return c >= required
}
