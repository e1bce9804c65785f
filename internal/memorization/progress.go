package memorization

import (
	"fmt"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
)

// RepetitionResult reports the state after a recorded repetition.
type RepetitionResult struct {
	RepetitionsDone  int
	TotalRepetitions int
	AtTarget         bool
	// NoOp is true when the call changed nothing (plan completed, or the
	// verse already sits at the repetition target).
	NoOp bool
}

// RecordRepetition increments the repetition counter for the current
// verse up to the target. Completed plans and verses already at target
// are no-ops returning unchanged state.
func RecordRepetition(pr *learner.PlanProgress, cfg Config) *RepetitionResult {
	if pr.Completed() || pr.RepetitionsDone >= cfg.RepetitionTarget {
		return &RepetitionResult{
			RepetitionsDone:  pr.RepetitionsDone,
			TotalRepetitions: pr.TotalRepetitions,
			AtTarget:         pr.RepetitionsDone >= cfg.RepetitionTarget,
			NoOp:             true,
		}
	}
	pr.RepetitionsDone++
	pr.TotalRepetitions++
	return &RepetitionResult{
		RepetitionsDone:  pr.RepetitionsDone,
		TotalRepetitions: pr.TotalRepetitions,
		AtTarget:         pr.RepetitionsDone == cfg.RepetitionTarget,
	}
}

// AdvanceResult reports the state after advancing past a verse.
type AdvanceResult struct {
	FinishedVerse string
	NextVerse     string
	PlanCompleted bool
	NoOp          bool
}

// AdvanceVerse moves the student past the current verse once its
// repetitions are satisfied. On the final verse it sets CompletedAt
// (terminal); otherwise the index advances and the counter resets.
// A completed plan is a no-op returning unchanged state.
func AdvanceVerse(pr *learner.PlanProgress, plan *learner.Plan, now time.Time, cfg Config) (*AdvanceResult, error) {
	if pr.Completed() {
		return &AdvanceResult{PlanCompleted: true, NoOp: true}, nil
	}
	if pr.RepetitionsDone != cfg.RepetitionTarget {
		return nil, fmt.Errorf("verse needs %d repetitions, has %d: %w",
			cfg.RepetitionTarget, pr.RepetitionsDone, learner.ErrStateConflict)
	}
	if pr.CurrentVerseIndex >= len(plan.VerseKeys) {
		return nil, fmt.Errorf("verse index %d out of plan range: %w", pr.CurrentVerseIndex, learner.ErrStateConflict)
	}

	finished := plan.VerseKeys[pr.CurrentVerseIndex]
	appendHistory(pr, learner.VerseLog{
		VerseKey:    finished,
		Repetitions: pr.RepetitionsDone,
		At:          now,
	}, cfg.HistoryCap)

	if pr.CurrentVerseIndex == len(plan.VerseKeys)-1 {
		at := now
		pr.CompletedAt = &at
		return &AdvanceResult{FinishedVerse: finished, PlanCompleted: true}, nil
	}

	pr.CurrentVerseIndex++
	pr.RepetitionsDone = 0
	return &AdvanceResult{
		FinishedVerse: finished,
		NextVerse:     plan.VerseKeys[pr.CurrentVerseIndex],
	}, nil
}

// appendHistory appends to the plan history, evicting the oldest entry at
// capacity.
func appendHistory(pr *learner.PlanProgress, entry learner.VerseLog, capacity int) {
	pr.History = append(pr.History, entry)
	if len(pr.History) > capacity {
		pr.History = pr.History[len(pr.History)-capacity:]
	}
}
