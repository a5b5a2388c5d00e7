package gamification

import (
	"testing"

	"github.com/scamwatch/scamwatch/app/models"
)

func TestResolveClearance(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want Clearance
	}{
		{name: "nil user", user: nil, want: ClearanceAnonymous},
		{name: "admin", user: &models.User{Role: models.ROLE_ADMIN, CredibilityScore: 10}, want: ClearanceAdmin},
		{name: "default member", user: &models.User{Role: models.ROLE_USER, CredibilityScore: models.DefaultCredibility}, want: ClearanceMember},
		{name: "trusted at boundary", user: &models.User{Role: models.ROLE_USER, CredibilityScore: models.TrustedCredibility}, want: ClearanceTrusted},
		{name: "just below trusted", user: &models.User{Role: models.ROLE_USER, CredibilityScore: models.TrustedCredibility - 1}, want: ClearanceMember},
	}

	for _, tt := range tests {
		if got := ResolveClearance(tt.user); got != tt.want {
			t.Fatalf("%s: ResolveClearance = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClearanceAtLeast(t *testing.T) {
	if !ClearanceAdmin.AtLeast(ClearanceTrusted) {
		t.Fatal("admin should satisfy trusted")
	}
	if ClearanceMember.AtLeast(ClearanceTrusted) {
		t.Fatal("member should not satisfy trusted")
	}
	if ClearanceAnonymous.AtLeast(ClearanceMember) {
		t.Fatal("anonymous should not satisfy member")
	}
}
