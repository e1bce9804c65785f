package memorization

import (
	"fmt"
	"strings"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/quran"
)

// ValidatePlanInput checks a plan's title, class assignment and verse
// keys. Any invalid key aborts the whole creation; the error lists every
// offending key.
func ValidatePlanInput(title string, verseKeys, classIDs []string) error {
	if strings.TrimSpace(title) == "" {
		return learner.NewValidationError("title", "must not be empty")
	}
	if len(verseKeys) == 0 {
		return learner.NewValidationError("verseKeys", "must not be empty")
	}
	if len(classIDs) == 0 {
		return learner.NewValidationError("classIds", "plan needs at least one class assignment")
	}
	if _, issues := quran.ValidateKeys(verseKeys); len(issues) > 0 {
		return learner.NewVerseKeyError(issues)
	}
	return nil
}

// CheckQuota fails with ErrRateLimited when the author has exhausted
// today's plan-creation quota. The counter resets on calendar-day change.
func CheckQuota(rec *learner.Record, now time.Time, quota int) error {
	today := learner.DateOf(now)
	used := rec.Meta.PlanQuotaUsed
	if rec.Meta.PlanQuotaDate != today {
		used = 0
	}
	if used >= quota {
		return fmt.Errorf("daily plan quota of %d reached: %w", quota, learner.ErrRateLimited)
	}
	return nil
}

// ConsumeQuota records one plan creation against today's quota.
func ConsumeQuota(rec *learner.Record, now time.Time) {
	today := learner.DateOf(now)
	if rec.Meta.PlanQuotaDate != today {
		rec.Meta.PlanQuotaDate = today
		rec.Meta.PlanQuotaUsed = 0
	}
	rec.Meta.PlanQuotaUsed++
}

// AssignedTo reports whether the plan's class set intersects the
// student's class memberships.
func AssignedTo(plan *learner.Plan, studentClassIDs []string) bool {
	member := make(map[string]bool, len(studentClassIDs))
	for _, id := range studentClassIDs {
		member[id] = true
	}
	for _, id := range plan.ClassIDs {
		if member[id] {
			return true
		}
	}
	return false
}

// VerseKeysChanged reports whether two key lists differ. A changed key
// list resets dependent progress.
func VerseKeysChanged(a, b []string) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
