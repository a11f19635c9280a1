package domain

// ProgressionState is the derived XP/level state for a user.
// Invariant: XPCurrentLevel < XPNextLevel and XPNextLevel = LevelThreshold(Level).
type ProgressionState struct {
	UserID         int64 `db:"user_id" json:"user_id"`
	XPTotal        int64 `db:"xp_total" json:"xp_total"`
	Level          int   `db:"level" json:"level"`
	XPCurrentLevel int64 `db:"xp_current_level" json:"xp_current_level"`
	XPNextLevel    int64 `db:"xp_next_level" json:"xp_next_level"`
}

// LevelThreshold is the XP needed to clear the given level.
func LevelThreshold(level int) int64 {
	if level < 1 {
		level = 1
	}
	return 100 + 25*int64(level-1)
}

// ProgressionFromTotal recomputes the level state for a total XP amount by
// walking the per-level thresholds from level 1.
func ProgressionFromTotal(userID, xpTotal int64) ProgressionState {
	if xpTotal < 0 {
		xpTotal = 0
	}
	level := 1
	remaining := xpTotal
	for remaining >= LevelThreshold(level) {
		remaining -= LevelThreshold(level)
		level++
	}
	return ProgressionState{
		UserID:         userID,
		XPTotal:        xpTotal,
		Level:          level,
		XPCurrentLevel: remaining,
		XPNextLevel:    LevelThreshold(level),
	}
}
