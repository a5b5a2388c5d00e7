package gamification

import "testing"

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 500, want: 1},
		{xp: 501, want: 2},
		{xp: 1500, want: 2},
		{xp: 1501, want: 3},
		{xp: 3000, want: 3},
		{xp: 3001, want: 4},
		{xp: 6000, want: 4},
		{xp: 6001, want: 5},
		{xp: 1000000, want: 5},
	}

	for _, tt := range tests {
		if got := CalculateLevel(tt.xp); got != tt.want {
			t.Fatalf("CalculateLevel(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 7000; xp += 50 {
		level := CalculateLevel(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at xp=%d", prev, level, xp)
		}
		if level > MaxLevel {
			t.Fatalf("level %d exceeds maximum %d at xp=%d", level, MaxLevel, xp)
		}
		prev = level
	}
}

func TestXPForNextLevel(t *testing.T) {
	next, ok := XPForNextLevel(1)
	if !ok || next != 501 {
		t.Fatalf("XPForNextLevel(1) = %d, %v; want 501, true", next, ok)
	}
	if _, ok := XPForNextLevel(MaxLevel); ok {
		t.Fatalf("expected no next level beyond %d", MaxLevel)
	}
}

func TestXPProgress(t *testing.T) {
	if got := XPProgress(0, 1); got != 0 {
		t.Fatalf("XPProgress(0, 1) = %f, want 0", got)
	}
	if got := XPProgress(501, 2); got != 0 {
		t.Fatalf("XPProgress(501, 2) = %f, want 0", got)
	}
	if got := XPProgress(9999, MaxLevel); got != 100 {
		t.Fatalf("XPProgress at max level = %f, want 100", got)
	}

	// halfway between the level 2 and level 3 thresholds
	mid := 501 + (1501-501)/2
	got := XPProgress(mid, 2)
	if got < 49 || got > 51 {
		t.Fatalf("XPProgress(%d, 2) = %f, want ~50", mid, got)
	}

	// clamped on both ends
	if got := XPProgress(0, 2); got != 0 {
		t.Fatalf("XPProgress below threshold = %f, want 0", got)
	}
	if got := XPProgress(2000, 2); got != 100 {
		t.Fatalf("XPProgress beyond next threshold = %f, want 100", got)
	}
}
