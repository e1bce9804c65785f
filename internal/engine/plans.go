package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rayyan/tahfiz/internal/gamification"
	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
	"github.com/rayyan/tahfiz/internal/memorization"
)

// CreatePlan authors a memorization plan for one or more classes the
// teacher owns. Verse keys are validated up front; the daily creation
// quota is charged only after validation passes.
func (e *Engine) CreatePlan(teacherID, title string, verseKeys, classIDs []string) (*learner.Plan, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	if err := memorization.ValidatePlanInput(title, verseKeys, classIDs); err != nil {
		return nil, err
	}
	for _, classID := range classIDs {
		class, err := e.store.Class(classID)
		if err != nil {
			return nil, err
		}
		if class.TeacherID != teacherID {
			return nil, fmt.Errorf("class %s: %w", classID, learner.ErrNotAuthorized)
		}
	}

	var out *learner.Plan
	_, err := e.mutate(teacherID, func(rec *learner.Record) error {
		now := e.now()
		if err := memorization.CheckQuota(rec, now, e.memCfg.DailyPlanQuota); err != nil {
			return err
		}
		memorization.ConsumeQuota(rec, now)
		plan := &learner.Plan{
			ID:        uuid.NewString(),
			Title:     title,
			VerseKeys: append([]string(nil), verseKeys...),
			OwnerID:   teacherID,
			ClassIDs:  append([]string(nil), classIDs...),
			CreatedAt: now,
		}
		out = plan.Clone()
		e.store.PutPlan(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePersonalPlan authors a self-scoped plan backed by an auto-created
// private class holding only the learner.
func (e *Engine) CreatePersonalPlan(learnerID, title string, verseKeys []string, settings learner.PersonalSettings) (*learner.Plan, error) {
	if err := memorization.ValidatePlanInput(title, verseKeys, []string{"personal"}); err != nil {
		return nil, err
	}

	var out *learner.Plan
	_, err := e.mutate(learnerID, func(rec *learner.Record) error {
		now := e.now()
		if err := memorization.CheckQuota(rec, now, e.memCfg.DailyPlanQuota); err != nil {
			return err
		}
		memorization.ConsumeQuota(rec, now)

		class := &learner.Class{
			ID:         uuid.NewString(),
			Name:       "Personal: " + title,
			TeacherID:  learnerID,
			StudentIDs: []string{learnerID},
			Personal:   true,
			CreatedAt:  now,
		}
		e.store.PutClass(class)

		s := settings
		plan := &learner.Plan{
			ID:        uuid.NewString(),
			Title:     title,
			VerseKeys: append([]string(nil), verseKeys...),
			OwnerID:   learnerID,
			ClassIDs:  []string{class.ID},
			Personal:  &s,
			CreatedAt: now,
		}
		out = plan.Clone()
		e.store.PutPlan(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePlan edits a plan the owner authored. Changing the verse set
// resets every student's progress on the plan.
func (e *Engine) UpdatePlan(ownerID, planID, title string, verseKeys []string) (*learner.Plan, error) {
	plan, err := e.store.Plan(planID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != ownerID {
		return nil, fmt.Errorf("plan %s: %w", planID, learner.ErrNotAuthorized)
	}
	if err := memorization.ValidatePlanInput(title, verseKeys, plan.ClassIDs); err != nil {
		return nil, err
	}

	if memorization.VerseKeysChanged(plan.VerseKeys, verseKeys) {
		e.store.ResetProgressForPlan(planID)
	}
	var out *learner.Plan
	e.store.WithCatalog(func() {
		plan.Title = title
		plan.VerseKeys = append([]string(nil), verseKeys...)
		out = plan.Clone()
	})
	return out, nil
}

// DeletePlan removes a plan the owner authored, along with all dependent
// student progress.
func (e *Engine) DeletePlan(ownerID, planID string) error {
	plan, err := e.store.Plan(planID)
	if err != nil {
		return err
	}
	if plan.OwnerID != ownerID {
		return fmt.Errorf("plan %s: %w", planID, learner.ErrNotAuthorized)
	}
	e.store.DeletePlan(planID)
	return nil
}

// planProgressFor fetches or creates the student's progress row for a
// plan they can see.
func (e *Engine) planProgressFor(studentID, planID string) (*learner.PlanProgress, *learner.Plan, error) {
	plan, err := e.store.Plan(planID)
	if err != nil {
		return nil, nil, err
	}
	classIDs := e.store.ClassesForStudent(studentID)
	if !memorization.AssignedTo(plan, classIDs) {
		return nil, nil, fmt.Errorf("plan %s: %w", planID, learner.ErrNotAuthorized)
	}
	pr, err := e.store.Progress(planID, studentID)
	if err != nil {
		pr = &learner.PlanProgress{
			StudentID: studentID,
			PlanID:    planID,
		}
		e.store.PutProgress(pr)
	}
	return pr, plan, nil
}

// RecordRepetition counts one recitation repetition of the student's
// current plan verse.
func (e *Engine) RecordRepetition(studentID, planID string) (*memorization.RepetitionResult, *learner.Record, error) {
	var result *memorization.RepetitionResult
	snap, err := e.mutate(studentID, func(rec *learner.Record) error {
		pr, _, err := e.planProgressFor(studentID, planID)
		if err != nil {
			return err
		}
		e.store.WithCatalog(func() {
			result = memorization.RecordRepetition(pr, e.memCfg)
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// AdvanceVerse moves the student past the current verse once its
// repetitions are complete. Finishing the last verse completes the plan
// and enqueues its verses on the spaced review queue.
func (e *Engine) AdvanceVerse(studentID, planID string) (*memorization.AdvanceResult, *learner.Record, error) {
	var result *memorization.AdvanceResult
	snap, err := e.mutate(studentID, func(rec *learner.Record) error {
		pr, plan, err := e.planProgressFor(studentID, planID)
		if err != nil {
			return err
		}
		var res *memorization.AdvanceResult
		e.store.WithCatalog(func() {
			res, err = memorization.AdvanceVerse(pr, plan, e.now(), e.memCfg)
		})
		if err != nil {
			return err
		}
		result = res
		if res.PlanCompleted {
			task := memorization.NewTask(uuid.NewString(), studentID, plan.VerseKeys, e.now())
			e.store.PutMemTask(task)
			rec.Activity.Append(learner.Activity{
				Kind:    "memorization",
				Message: fmt.Sprintf("Completed plan %q", plan.Title),
				At:      e.now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// ReviewMemorizationTask grades one spaced-repetition recall. Rewards
// scale with accuracy; the memorization event is gated downstream on the
// task-engine accuracy threshold.
func (e *Engine) ReviewMemorizationTask(studentID, taskID string, quality, accuracy int) (*memorization.Outcome, *learner.Record, error) {
	task, err := e.store.MemTask(taskID)
	if err != nil {
		return nil, nil, err
	}
	if task.StudentID != studentID {
		return nil, nil, fmt.Errorf("memorization task %s: %w", taskID, learner.ErrNotAuthorized)
	}

	var outcome *memorization.Outcome
	snap, err := e.mutate(studentID, func(rec *learner.Record) error {
		now := e.now()
		e.store.WithCatalog(func() {
			outcome = memorization.Review(task, quality, accuracy, now, e.memCfg)
		})
		memorization.RecordHeat(rec, now)
		leveling.ApplyXP(&rec.Stats.Progress, &rec.Stats.WeeklyXP, outcome.XPGranted, leveling.AccountStep, now)
		leveling.ApplyHasanat(&rec.Stats.Hasanat, outcome.Hasanat)
		rec.Activity.Append(learner.Activity{
			Kind:    "memorization",
			Message: fmt.Sprintf("Reviewed %d verse(s), now %s", len(task.VerseKeys), outcome.Status),
			At:      now,
		})
		e.raise(rec, []gamification.Event{{Kind: learner.TaskMemorization, RefID: taskID, Accuracy: accuracy}})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outcome, snap, nil
}
