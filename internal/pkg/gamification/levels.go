package gamification

// LevelThreshold maps a level to the minimum XP required to hold it.
type LevelThreshold struct {
	Level int
	MinXP int
}

// LevelThresholds is the fixed leveling table. Level 5 is the ceiling: there
// is deliberately no open-ended leveling beyond it, additional XP keeps the
// user at the highest defined level.
var LevelThresholds = []LevelThreshold{
	{Level: 1, MinXP: 0},
	{Level: 2, MinXP: 501},
	{Level: 3, MinXP: 1501},
	{Level: 4, MinXP: 3001},
	{Level: 5, MinXP: 6001},
}

// MaxLevel is the highest level defined by the threshold table.
var MaxLevel = LevelThresholds[len(LevelThresholds)-1].Level

// CalculateLevel returns the highest level whose threshold is at or below xp.
func CalculateLevel(xp int) int {
	level := 1
	for _, t := range LevelThresholds {
		if xp >= t.MinXP {
			level = t.Level
		} else {
			break
		}
	}
	return level
}

// XPForNextLevel returns the minimum XP of the level after the given one.
// ok is false when the level is already the maximum defined.
func XPForNextLevel(level int) (int, bool) {
	for _, t := range LevelThresholds {
		if t.Level == level+1 {
			return t.MinXP, true
		}
	}
	return 0, false
}

// XPProgress returns the progress through the given level as a percentage,
// interpolating linearly between the level's own threshold and the next one.
// The result is clamped to [0, 100] for any non-negative input; the maximum
// level always reports 100.
func XPProgress(xp, level int) float64 {
	current := 0
	for _, t := range LevelThresholds {
		if t.Level == level {
			current = t.MinXP
			break
		}
	}

	next, ok := XPForNextLevel(level)
	if !ok {
		return 100
	}

	progress := float64(xp-current) / float64(next-current) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
