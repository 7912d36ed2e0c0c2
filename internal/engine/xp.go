package engine

import "math"

const (
	// MaxLevel caps role leveling. XP beyond the cap keeps accumulating.
	MaxLevel = 100

	// LevelCurveBase and LevelCurveFactor define XP_req(L) = floor(100 * L * 1.5).
	LevelCurveBase   = 100.0
	LevelCurveFactor = 1.5
)

// XPRequiredForLevel returns the XP needed to advance from level to level+1.
// Every threshold shown or enforced anywhere comes from here.
func XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(LevelCurveBase * float64(level) * LevelCurveFactor))
}
