// Package habit implements daily habit completion with calendar-day
// streak continuation and reset.
package habit

import (
	"fmt"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

// Config holds the per-difficulty reward table.
type Config struct {
	XP      map[learner.Difficulty]int
	Hasanat map[learner.Difficulty]int
}

// DefaultConfig returns the reference reward table.
func DefaultConfig() Config {
	return Config{
		XP: map[learner.Difficulty]int{
			learner.DifficultyEasy:   20,
			learner.DifficultyMedium: 35,
			learner.DifficultyHard:   50,
		},
		Hasanat: map[learner.Difficulty]int{
			learner.DifficultyEasy:   10,
			learner.DifficultyMedium: 15,
			learner.DifficultyHard:   25,
		},
	}
}

// Result reports what one completion changed.
type Result struct {
	HabitStreak    int
	AccountStreak  int
	XPGranted      int
	HasanatGranted int
	HabitLevel     int
}

// Complete credits one completion of the habit for today.
//
// It fails with ErrStateConflict when the habit was already completed on
// the same civil day (date-string comparison, not instant comparison) and
// applies no mutation on any failure path.
func Complete(rec *learner.Record, habitID string, now time.Time, cfg Config) (*Result, error) {
	h := rec.Habit(habitID)
	if h == nil {
		return nil, fmt.Errorf("habit %s: %w", habitID, learner.ErrNotFound)
	}
	today := learner.DateOf(now)
	if h.LastCompletedAt == today {
		return nil, fmt.Errorf("habit %s already completed today: %w", habitID, learner.ErrStateConflict)
	}

	xp := cfg.XP[h.Difficulty]
	hasanat := cfg.Hasanat[h.Difficulty]

	// Habit streak: gap of one day continues, anything larger resets.
	h.Streak = learner.AdvanceStreak(h.Streak, h.LastCompletedAt, now)
	if h.Streak > h.BestStreak {
		h.BestStreak = h.Streak
	}
	h.LastCompletedAt = today
	h.WeeklyProgress[int(now.Weekday())]++

	// Habit-local leveling runs on its own step constant.
	h.Add(xp, leveling.HabitStep)

	// The account streak is keyed off shared habit activity: completing
	// any habit counts, but only the first completion of the day moves it.
	if rec.Meta.LastHabitActivity != today {
		rec.Stats.Streak = learner.AdvanceStreak(rec.Stats.Streak, rec.Meta.LastHabitActivity, now)
		rec.Meta.LastHabitActivity = today
	}

	leveling.ApplyXP(&rec.Stats.Progress, &rec.Stats.WeeklyXP, xp, leveling.AccountStep, now)
	leveling.ApplyHasanat(&rec.Stats.Hasanat, hasanat)
	rec.Stats.CompletedHabits++

	rec.Activity.Append(learner.Activity{
		Kind:    "habit",
		Message: fmt.Sprintf("Completed habit %q (streak %d)", h.Name, h.Streak),
		At:      now,
	})

	return &Result{
		HabitStreak:    h.Streak,
		AccountStreak:  rec.Stats.Streak,
		XPGranted:      xp,
		HasanatGranted: hasanat,
		HabitLevel:     h.Level,
	}, nil
}
