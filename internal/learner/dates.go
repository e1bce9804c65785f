package learner

import "time"

// DateLayout is the calendar-date string format used for same-day checks.
const DateLayout = "2006-01-02"

// DateOf formats a moment as its calendar date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// DayGap returns the number of civil days between a stored calendar date
// and now. ok is false when there is no previous date or it is malformed.
func DayGap(prevDate string, now time.Time) (gap int, ok bool) {
	if prevDate == "" {
		return 0, false
	}
	prev, err := time.Parse(DateLayout, prevDate)
	if err != nil {
		return 0, false
	}
	today, _ := time.Parse(DateLayout, DateOf(now))
	return int(today.Sub(prev).Hours() / 24), true
}

// AdvanceStreak applies the calendar-day streak rule: a gap of one day
// continues the streak, anything else starts over at 1. Two completions
// on the same day should be rejected before calling this.
func AdvanceStreak(current int, prevDate string, now time.Time) int {
	gap, ok := DayGap(prevDate, now)
	if !ok {
		return 1
	}
	if gap == 1 {
		return current + 1
	}
	return 1
}
