// Package recitation ingests scored recitation attempts and teacher
// reviews, keeping task state, tajweed focus areas and rolling accuracy
// in sync.
package recitation

import (
	"fmt"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

// Config holds the pipeline tuning values.
type Config struct {
	// XPFloor is granted for any submission; accuracy adds a scaled bonus
	// on top.
	XPFloor int
	// RollingWindow is the session count for the rolling accuracy mean.
	RollingWindow int
	// FocusTarget is the default target for newly created focus areas.
	FocusTarget int
	// FocusImprovingMargin is how far below target still counts as
	// improving rather than needing support.
	FocusImprovingMargin int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		XPFloor:              10,
		RollingWindow:        10,
		FocusTarget:          90,
		FocusImprovingMargin: 15,
	}
}

// Submission is one scored attempt handed in by the external scorer.
type Submission struct {
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
}

// Result reports what a submission changed.
type Result struct {
	SessionID         string
	Accuracy          int
	XPGranted         int
	HasanatGranted    int
	TaskStatus        learner.RecitationStatus
	RecitationPercent int
}

// Submit appends an immutable session record and updates the linked task,
// assignment submission, focus areas and rolling accuracy. task and
// assignment may be nil when the attempt is free-standing.
func Submit(rec *learner.Record, task *learner.RecitationTask, assignment *learner.Assignment, sub Submission, sessionID string, now time.Time, cfg Config) *Result {
	accuracy := leveling.ClampScore(sub.Accuracy)
	tajweed := leveling.ClampScore(sub.TajweedScore)
	fluency := leveling.ClampScore(sub.FluencyScore)

	rec.Sessions.Append(learner.Session{
		ID:              sessionID,
		TaskID:          sub.TaskID,
		Surah:           sub.Surah,
		FromAyah:        sub.FromAyah,
		ToAyah:          sub.ToAyah,
		Accuracy:        accuracy,
		TajweedScore:    tajweed,
		FluencyScore:    fluency,
		HasanatEarned:   sub.HasanatEarned,
		DurationSeconds: sub.DurationSeconds,
		Transcript:      sub.Transcript,
		ExpectedText:    sub.ExpectedText,
		SubmittedAt:     now,
	})

	// Reviewed is terminal from the student's side; a new attempt is
	// logged but no longer moves the task.
	if task != nil && task.Status.CanAdvanceTo(learner.RecitationSubmitted) {
		task.Status = learner.RecitationSubmitted
		task.LastScore = accuracy
		at := now
		task.SubmittedAt = &at
		syncAssignment(assignment, rec.Profile.ID, learner.RecitationSubmitted, accuracy, now)
		blendFocusAreas(rec, task.FocusAreas, tajweed, cfg)
	}

	xp := cfg.XPFloor + accuracy/2
	leveling.ApplyXP(&rec.Stats.Progress, &rec.Stats.WeeklyXP, xp, leveling.AccountStep, now)
	leveling.ApplyHasanat(&rec.Stats.Hasanat, sub.HasanatEarned)
	rec.Stats.StudyMinutes += sub.DurationSeconds / 60
	rec.Stats.RecitationPercent = rollingAccuracy(rec, cfg.RollingWindow)

	rec.Activity.Append(learner.Activity{
		Kind:    "recitation",
		Message: fmt.Sprintf("Recited %d:%d-%d at %d%%", sub.Surah, sub.FromAyah, sub.ToAyah, accuracy),
		At:      now,
	})

	status := learner.RecitationStatus("")
	if task != nil {
		status = task.Status
	}
	return &Result{
		SessionID:         sessionID,
		Accuracy:          accuracy,
		XPGranted:         xp,
		HasanatGranted:    sub.HasanatEarned,
		TaskStatus:        status,
		RecitationPercent: rec.Stats.RecitationPercent,
	}
}

// Review applies a teacher review: status is forced to reviewed
// (terminal), the last score is overwritten, any linked assignment
// submission is synced, and the note is appended to the capped feedback
// log. Reviewing a task that was never submitted is a state conflict.
func Review(rec *learner.Record, task *learner.RecitationTask, assignment *learner.Assignment, teacherID string, accuracy, tajweedScore int, notes string, now time.Time) (*Result, error) {
	if task.Status == learner.RecitationAssigned {
		return nil, fmt.Errorf("task %s has no submission to review: %w", task.ID, learner.ErrStateConflict)
	}

	accuracy = leveling.ClampScore(accuracy)
	task.Status = learner.RecitationReviewed
	task.LastScore = accuracy
	at := now
	task.ReviewedAt = &at
	syncAssignment(assignment, rec.Profile.ID, learner.RecitationReviewed, accuracy, now)

	if notes != "" {
		rec.Notes.Append(learner.Note{
			TaskID:    task.ID,
			TeacherID: teacherID,
			Text:      notes,
			At:        now,
		})
	}
	rec.Activity.Append(learner.Activity{
		Kind:    "review",
		Message: fmt.Sprintf("Teacher reviewed recitation at %d%%", accuracy),
		At:      now,
	})

	return &Result{Accuracy: accuracy, TaskStatus: task.Status}, nil
}

func syncAssignment(assignment *learner.Assignment, studentID string, status learner.RecitationStatus, score int, now time.Time) {
	if assignment == nil {
		return
	}
	sub, ok := assignment.Submissions[studentID]
	if !ok {
		sub = &learner.Submission{}
		if assignment.Submissions == nil {
			assignment.Submissions = make(map[string]*learner.Submission)
		}
		assignment.Submissions[studentID] = sub
	}
	sub.Status = status
	sub.Score = score
	at := now
	sub.SubmittedAt = &at
}

// blendFocusAreas averages each of the task's focus areas 50/50 with the
// session's tajweed score and recomputes its status from the distance to
// target. Unknown areas are created.
func blendFocusAreas(rec *learner.Record, names []string, tajweed int, cfg Config) {
	for _, name := range names {
		fa := rec.FocusArea(name)
		if fa == nil {
			fa = &learner.FocusArea{Name: name, Score: tajweed, Target: cfg.FocusTarget}
			rec.FocusAreas = append(rec.FocusAreas, fa)
		} else {
			fa.Score = (fa.Score + tajweed) / 2
		}
		fa.Status = focusStatus(fa.Score, fa.Target, cfg.FocusImprovingMargin)
	}
}

func focusStatus(score, target, margin int) learner.FocusStatus {
	switch {
	case score >= target:
		return learner.FocusMastered
	case score >= target-margin:
		return learner.FocusImproving
	default:
		return learner.FocusNeedsSupport
	}
}

// rollingAccuracy returns the mean accuracy of the newest sessions.
func rollingAccuracy(rec *learner.Record, window int) int {
	recent := rec.Sessions.Last(window)
	if len(recent) == 0 {
		return 0
	}
	sum := 0
	for _, s := range recent {
		sum += s.Accuracy
	}
	return sum / len(recent)
}
