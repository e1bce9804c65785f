// Package memorization covers authored plans, per-student linear plan
// progress, and the independent due-date review queue.
package memorization

// Config holds the subsystem tuning values.
type Config struct {
	// RepetitionTarget is the repetitions required before a verse can be
	// advanced past.
	RepetitionTarget int
	// DailyPlanQuota bounds plan creation per author per calendar day.
	DailyPlanQuota int
	// HistoryCap bounds the per-student plan history length.
	HistoryCap int
	// ReviewXPBase is the XP floor for a completed review; accuracy adds
	// on top of it.
	ReviewXPBase int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		RepetitionTarget: 20,
		DailyPlanQuota:   10,
		HistoryCap:       50,
		ReviewXPBase:     15,
	}
}

// Review algorithm constants (SM-2 family).
const (
	EaseMin  = 1.3
	EaseMax  = 2.7
	EaseInit = 2.5
	// EaseStep adjusts the ease factor per quality point away from 3.
	EaseStep = 0.05
	// EaseFailPenalty is subtracted on a failed recall.
	EaseFailPenalty = 0.15
	// GoodMultiplier grows the interval for a quality-3 recall; quality 4
	// and above grows by the ease factor instead.
	GoodMultiplier = 1.8
	// ConfidenceSmoothing moves confidence 40% of the way toward each
	// review's accuracy.
	ConfidenceSmoothing = 0.4
	// Mastery requires this quality and accuracy on the same review.
	MasteryQuality  = 4
	MasteryAccuracy = 90
)
