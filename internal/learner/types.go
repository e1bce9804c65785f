// Package learner owns all mutable learner state. Every other subsystem
// mutates records through the Store; reads outside the store are deep
// copies so callers can never bypass the store's invariants.
package learner

import (
	"time"

	"github.com/rayyan/tahfiz/internal/leveling"
	"github.com/rayyan/tahfiz/internal/ring"
)

// Role is the account role.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// Subscription is the billing plan.
type Subscription string

const (
	SubscriptionFree    Subscription = "free"
	SubscriptionPremium Subscription = "premium"
)

// Profile is the learner identity. Immutable except for subscription
// changes; created once at account creation.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	Locale       string
	Subscription Subscription
	JoinedAt     time.Time
}

// Stats holds the account-level counters. Hasanat, AyahsRead,
// StudyMinutes and CompletedHabits are monotonic.
type Stats struct {
	leveling.Progress

	Hasanat         int
	Streak          int
	AyahsRead       int
	StudyMinutes    int
	CompletedHabits int
	// WeeklyXP is indexed by time.Weekday; each slot is capped at one
	// level-step of XP per day.
	WeeklyXP [7]int
	// RecitationPercent is the rolling mean accuracy of recent sessions.
	RecitationPercent int
}

// Difficulty grades a habit quest.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// HabitQuest is a recurring daily task with its own leveling curve,
// independent from account-level XP.
type HabitQuest struct {
	leveling.Progress

	ID         string
	Name       string
	Difficulty Difficulty
	Streak     int
	BestStreak int
	// LastCompletedAt is a calendar-date string ("2006-01-02"); at most
	// one completion is credited per calendar day.
	LastCompletedAt string
	WeeklyProgress  [7]int
}

// DefaultDailyTarget is the ayah goal new learners start with.
const DefaultDailyTarget = 10

// DailyTarget is the per-day ayah reading goal. CompletedAyahs may exceed
// TargetAyahs; the target is progress tracking, not a cap.
type DailyTarget struct {
	TargetAyahs    int
	CompletedAyahs int
	LastUpdated    time.Time
}

// Remaining returns the ayahs left toward the target, floored at zero.
func (d DailyTarget) Remaining() int {
	if d.CompletedAyahs >= d.TargetAyahs {
		return 0
	}
	return d.TargetAyahs - d.CompletedAyahs
}

// FocusStatus describes a tajweed focus area's standing against its target.
type FocusStatus string

const (
	FocusMastered     FocusStatus = "mastered"
	FocusImproving    FocusStatus = "improving"
	FocusNeedsSupport FocusStatus = "needs_support"
)

// FocusArea is a tracked tajweed rule skill with a blended score.
type FocusArea struct {
	Name   string
	Score  int
	Target int
	Status FocusStatus
}

// Activity is one entry in the capped activity feed.
type Activity struct {
	Kind    string
	Message string
	At      time.Time
}

// Session is an immutable recitation attempt record. Scores are integers
// clamped to [0,100].
type Session struct {
	ID              string
	TaskID          string
	Surah           int
	FromAyah        int
	ToAyah          int
	Accuracy        int
	TajweedScore    int
	FluencyScore    int
	HasanatEarned   int
	DurationSeconds int
	Transcript      string
	ExpectedText    string
	SubmittedAt     time.Time
}

// Note is a teacher feedback entry on a recitation task.
type Note struct {
	TaskID    string
	TeacherID string
	Text      string
	At        time.Time
}

// HeatDay is one day of the review heatmap.
type HeatDay struct {
	Date    string
	Reviews int
}

// TaskKind is the domain event family a gamification task listens for.
type TaskKind string

const (
	TaskHabit        TaskKind = "habit"
	TaskRecitation   TaskKind = "recitation"
	TaskMemorization TaskKind = "memorization"
	TaskDailyTarget  TaskKind = "daily_target"
)

// TaskStatus is the gamification task lifecycle. Transitions are forward
// only; completed is terminal.
type TaskStatus string

const (
	TaskLocked     TaskStatus = "locked"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// CanAdvanceTo reports whether the transition is legal.
func (s TaskStatus) CanAdvanceTo(next TaskStatus) bool {
	switch s {
	case TaskLocked:
		return next == TaskInProgress || next == TaskCompleted
	case TaskInProgress:
		return next == TaskCompleted
	default:
		return false
	}
}

// QuestTask is a quest-like objective granting a one-time reward when
// progress reaches target.
type QuestTask struct {
	ID            string
	Title         string
	Kind          TaskKind
	Status        TaskStatus
	Progress      int
	Target        int
	XPReward      int
	HasanatReward int
	// FilterID, when set, binds the task to one habit/recitation/
	// memorization id; events for other ids do not match.
	FilterID string
	// MinAccuracy, when positive, gates matching on the event accuracy.
	MinAccuracy int
	CompletedAt *time.Time
}

// Energy rate-limits reward-bearing actions. It is decremented on XP
// grants but never gates a reward.
type Energy struct {
	Current int
	Max     int
}

// PanelStreak is the gamification streak, separate from the account habit
// streak.
type PanelStreak struct {
	Current int
	Best    int
}

// Panel is the learner's gamification dashboard state. The season runs on
// its own multiplicative leveling curve.
type Panel struct {
	Season       leveling.Progress
	Energy       Energy
	Streak       PanelStreak
	Shield       int
	NextRewardIn int
}

// CompletionEntry logs a completed gamification task.
type CompletionEntry struct {
	TaskID string
	Title  string
	At     time.Time
}

// Meta is private per-learner bookkeeping not exposed on dashboards.
type Meta struct {
	// LastHabitActivity is shared across all habits and drives the
	// account-level streak.
	LastHabitActivity string
	LastReviewDate    string
	ReviewStreak      int
	// CreditedVerses dedups per-verse hasanat awards within the session.
	CreditedVerses map[string]bool
	// SurahLog dedups daily surah completions by "slug|date".
	SurahLog      map[string]bool
	PlanQuotaDate string
	PlanQuotaUsed int
}

// Record is the full mutable state for one learner.
type Record struct {
	Profile     Profile
	Stats       Stats
	Habits      []*HabitQuest
	DailyTarget DailyTarget
	Panel       Panel
	FocusAreas  []*FocusArea
	Tasks       []*QuestTask
	Activity    *ring.Log[Activity]
	Sessions    *ring.Log[Session]
	Notes       *ring.Log[Note]
	Heatmap     *ring.Log[HeatDay]
	Completions *ring.Log[CompletionEntry]
	Meta        Meta
}

// Habit returns the habit with the given id, or nil.
func (r *Record) Habit(id string) *HabitQuest {
	for _, h := range r.Habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// FocusArea returns the focus area with the given name, or nil.
func (r *Record) FocusArea(name string) *FocusArea {
	for _, fa := range r.FocusAreas {
		if fa.Name == name {
			return fa
		}
	}
	return nil
}
