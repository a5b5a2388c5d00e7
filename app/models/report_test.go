package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReportDefaults(t *testing.T) {
	deadline := time.Now().Add(24 * time.Hour)
	r := NewReport(7, "fake-airdrop.xyz", "0xabc", "classic seed phrase phishing page", nil, &deadline)

	assert.NotEmpty(t, r.UUID)
	assert.Equal(t, ReportStatusPending, r.Status)
	assert.Zero(t, r.VoteYes)
	assert.Zero(t, r.VoteNo)
	assert.Zero(t, r.TrustedConfirmations)
	assert.Equal(t, &deadline, r.ExpiresAt)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		status string
		at     *time.Time
		want   bool
	}{
		{name: "pending past deadline", status: ReportStatusPending, at: &past, want: true},
		{name: "pending before deadline", status: ReportStatusPending, at: &future, want: false},
		{name: "pending without deadline", status: ReportStatusPending, at: nil, want: false},
		{name: "community verified past deadline", status: ReportStatusCommunityVerified, at: &past, want: true},
		{name: "fully verified is permanent", status: ReportStatusFullyVerified, at: &past, want: false},
		{name: "dismissed is terminal", status: ReportStatusDismissed, at: &past, want: false},
		{name: "expired is terminal", status: ReportStatusExpired, at: &past, want: false},
	}

	for _, tt := range tests {
		r := &Report{Status: tt.status, ExpiresAt: tt.at}
		if got := r.IsExpired(now); got != tt.want {
			t.Fatalf("%s: IsExpired = %v, want %v", tt.name, got, tt.want)
		}
	}
}
