// Package gamification reduces domain events over a learner's quest
// tasks and panel state. Tasks complete exactly once; completed is
// terminal.
package gamification

import (
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

// Accuracy thresholds for gated tasks.
const (
	RecitationGate   = 85
	MemorizationGate = 75
)

// Event is one domain occurrence the task engine listens for. RefID is
// the habit or task id the event concerns; Amount carries the absolute
// progress value for daily_target events.
type Event struct {
	Kind     learner.TaskKind
	RefID    string
	Accuracy int
	Amount   int
}

// Outcome summarizes what one Apply batch changed.
type Outcome struct {
	CompletedTaskIDs []string
	XPGranted        int
	HasanatGranted   int
}

// Apply reduces a batch of events over the record's task list and panel.
// Matching tasks advance; tasks reaching target complete exactly once:
// the one-time reward is granted, a completion entry is logged, the
// season advances on its own curve, the next-reward counter drops and
// energy is decremented (floored at zero, never a gate). The streak
// shield grows once per completed task in the batch.
func Apply(rec *learner.Record, events []Event, now time.Time) Outcome {
	var out Outcome
	for _, ev := range events {
		for _, task := range rec.Tasks {
			if task.Status == learner.TaskCompleted || task.Kind != ev.Kind {
				continue
			}
			if !matches(task, ev) {
				continue
			}
			advance(task, ev)
			if task.Progress >= task.Target {
				complete(rec, task, now, &out)
			}
		}
	}
	rec.Panel.Shield += len(out.CompletedTaskIDs)
	return out
}

func matches(task *learner.QuestTask, ev Event) bool {
	if task.FilterID != "" && task.FilterID != ev.RefID {
		return false
	}
	if task.MinAccuracy > 0 && ev.Accuracy < task.MinAccuracy {
		return false
	}
	return true
}

func advance(task *learner.QuestTask, ev Event) {
	if ev.Kind == learner.TaskDailyTarget {
		// Mirrors the absolute reading position; a daily-target reset
		// can move this back down.
		task.Progress = min(task.Target, ev.Amount)
	} else {
		task.Progress++
		if task.Progress > task.Target {
			task.Progress = task.Target
		}
	}
	if task.Status == learner.TaskLocked && task.Progress > 0 {
		task.Status = learner.TaskInProgress
	}
}

func complete(rec *learner.Record, task *learner.QuestTask, now time.Time, out *Outcome) {
	task.Status = learner.TaskCompleted
	at := now
	task.CompletedAt = &at

	leveling.ApplyXP(&rec.Stats.Progress, &rec.Stats.WeeklyXP, task.XPReward, leveling.AccountStep, now)
	leveling.ApplyHasanat(&rec.Stats.Hasanat, task.HasanatReward)
	rec.Panel.Season.AddSeason(task.XPReward)
	if rec.Panel.NextRewardIn > 0 {
		rec.Panel.NextRewardIn--
	}
	if rec.Panel.Energy.Current > 0 {
		rec.Panel.Energy.Current--
	}
	rec.Completions.Append(learner.CompletionEntry{TaskID: task.ID, Title: task.Title, At: now})

	out.CompletedTaskIDs = append(out.CompletedTaskIDs, task.ID)
	out.XPGranted += task.XPReward
	out.HasanatGranted += task.HasanatReward
}
