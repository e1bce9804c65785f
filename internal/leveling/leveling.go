// Package leveling holds the pure XP, level and hasanat primitives shared
// by every subsystem. No function here has error conditions; gains of
// zero or less are no-ops.
package leveling

import "time"

// Level-step constants. The account and habit curves are fixed-step; the
// season curve grows multiplicatively per level.
const (
	AccountStep    = 500
	HabitStep      = 150
	SeasonBaseStep = 750
	SeasonGrowth   = 1.2
)

// Progress is a leveling triple. XP accumulates within the current level;
// XPToNext stays in (0, step] after every update.
type Progress struct {
	Level    int
	XP       int
	XPToNext int
}

// NewProgress returns level-1 progress for a fixed-step curve.
func NewProgress(step int) Progress {
	return Progress{Level: 1, XPToNext: step}
}

// Add applies an XP gain against a fixed level step, rolling over as many
// levels as the gain covers. It returns the number of levels gained.
func (p *Progress) Add(gain, step int) int {
	if gain <= 0 {
		return 0
	}
	p.XP += gain
	levels := 0
	for p.XP >= step {
		p.XP -= step
		p.Level++
		levels++
	}
	p.XPToNext = step - p.XP
	return levels
}

// SeasonStepFor returns the XP needed to clear the given season level.
func SeasonStepFor(level int) int {
	step := float64(SeasonBaseStep)
	for i := 1; i < level; i++ {
		step *= SeasonGrowth
	}
	return int(step)
}

// AddSeason applies an XP gain against the multiplicative season curve.
// It returns the number of levels gained.
func (p *Progress) AddSeason(gain int) int {
	if gain <= 0 {
		return 0
	}
	p.XP += gain
	levels := 0
	for p.XP >= SeasonStepFor(p.Level) {
		p.XP -= SeasonStepFor(p.Level)
		p.Level++
		levels++
	}
	p.XPToNext = SeasonStepFor(p.Level) - p.XP
	return levels
}

// ApplyXP applies an XP gain to a progress triple and records it in the
// 7-slot weekly chart, clamped so a single day never exceeds one
// level-step of XP.
func ApplyXP(p *Progress, weekly *[7]int, gain, step int, now time.Time) {
	if gain <= 0 {
		return
	}
	p.Add(gain, step)
	slot := int(now.Weekday())
	add := gain
	if weekly[slot]+add > step {
		add = step - weekly[slot]
	}
	if add > 0 {
		weekly[slot] += add
	}
}

// ApplyHasanat adds to the hasanat counter. Hasanat is purely additive
// and never spent.
func ApplyHasanat(counter *int, gain int) {
	if gain <= 0 {
		return
	}
	*counter += gain
}

// ClampScore clamps an integer score into [0,100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
