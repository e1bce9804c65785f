package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rayyan/tahfiz/internal/gamification"
	"github.com/rayyan/tahfiz/internal/habit"
	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
	"github.com/rayyan/tahfiz/internal/quran"
)

// Hasanat awarded per credited verse read and per completed surah.
const (
	verseHasanat      = 10
	surahBonusXP      = 40
	surahBonusHasanat = 50
)

// CompleteHabit credits today's completion of a habit and feeds the
// habit event to the task engine. Completing the same habit twice on one
// calendar day is a state conflict.
func (e *Engine) CompleteHabit(learnerID, habitID string) (*habit.Result, *learner.Record, error) {
	var result *habit.Result
	snap, err := e.mutate(learnerID, func(rec *learner.Record) error {
		res, err := habit.Complete(rec, habitID, e.now(), e.habitCfg)
		if err != nil {
			return err
		}
		result = res
		e.raise(rec, []gamification.Event{{Kind: learner.TaskHabit, RefID: habitID}})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// UpdateDailyTarget sets the daily ayah goal. The linked daily-target
// task is re-mirrored against the current reading position.
func (e *Engine) UpdateDailyTarget(learnerID string, targetAyahs int) (*learner.Record, error) {
	if targetAyahs < 1 {
		return nil, learner.NewValidationError("targetAyahs", "must be at least 1")
	}
	return e.mutate(learnerID, func(rec *learner.Record) error {
		rec.DailyTarget.TargetAyahs = targetAyahs
		rec.DailyTarget.LastUpdated = e.now()
		e.raise(rec, []gamification.Event{{Kind: learner.TaskDailyTarget, Amount: rec.DailyTarget.CompletedAyahs}})
		return nil
	})
}

// ResetDailyTarget zeroes the day's reading position, moving the
// mirrored task progress back down with it.
func (e *Engine) ResetDailyTarget(learnerID string) (*learner.Record, error) {
	return e.mutate(learnerID, func(rec *learner.Record) error {
		rec.DailyTarget.CompletedAyahs = 0
		rec.DailyTarget.LastUpdated = e.now()
		e.raise(rec, []gamification.Event{{Kind: learner.TaskDailyTarget, Amount: 0}})
		return nil
	})
}

// ReadResult reports the effect of one verse-read credit.
type ReadResult struct {
	Credited       bool
	HasanatGranted int
	CompletedAyahs int
}

// RecordVerseRead advances the reading position for one verse. Hasanat
// is credited at most once per verse key per session; revisiting a verse
// still logs no duplicate award and does not move the position again.
func (e *Engine) RecordVerseRead(learnerID, verseKey string) (*ReadResult, *learner.Record, error) {
	surah, ayah, err := quran.ParseKey(verseKey)
	if err != nil || !quran.Exists(surah, ayah) {
		return nil, nil, learner.NewVerseKeyError([]string{verseKey})
	}
	var result *ReadResult
	snap, err := e.mutate(learnerID, func(rec *learner.Record) error {
		now := e.now()
		if rec.Meta.CreditedVerses[verseKey] {
			result = &ReadResult{Credited: false, CompletedAyahs: rec.DailyTarget.CompletedAyahs}
			return nil
		}
		rec.Meta.CreditedVerses[verseKey] = true
		rec.DailyTarget.CompletedAyahs++
		rec.DailyTarget.LastUpdated = now
		rec.Stats.AyahsRead++
		leveling.ApplyHasanat(&rec.Stats.Hasanat, verseHasanat)
		rec.Activity.Append(learner.Activity{
			Kind:    "reading",
			Message: fmt.Sprintf("Read verse %s", verseKey),
			At:      now,
		})
		e.raise(rec, []gamification.Event{{Kind: learner.TaskDailyTarget, Amount: rec.DailyTarget.CompletedAyahs}})
		result = &ReadResult{Credited: true, HasanatGranted: verseHasanat, CompletedAyahs: rec.DailyTarget.CompletedAyahs}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// CompleteSurah credits finishing a surah, at most once per surah per
// calendar day.
func (e *Engine) CompleteSurah(learnerID, slug string) (*learner.Record, error) {
	if slug == "" {
		return nil, learner.NewValidationError("slug", "must not be empty")
	}
	return e.mutate(learnerID, func(rec *learner.Record) error {
		now := e.now()
		key := slug + "|" + learner.DateOf(now)
		if rec.Meta.SurahLog[key] {
			return fmt.Errorf("surah %s already completed today: %w", slug, learner.ErrStateConflict)
		}
		rec.Meta.SurahLog[key] = true
		leveling.ApplyXP(&rec.Stats.Progress, &rec.Stats.WeeklyXP, surahBonusXP, leveling.AccountStep, now)
		leveling.ApplyHasanat(&rec.Stats.Hasanat, surahBonusHasanat)
		rec.Activity.Append(learner.Activity{
			Kind:    "reading",
			Message: fmt.Sprintf("Completed surah %s", slug),
			At:      now,
		})
		return nil
	})
}

// CreateClass registers a class owned by the teacher.
func (e *Engine) CreateClass(teacherID, name string, studentIDs []string) (*learner.Class, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, learner.NewValidationError("name", "must not be empty")
	}
	class := &learner.Class{
		ID:         uuid.NewString(),
		Name:       name,
		TeacherID:  teacherID,
		StudentIDs: studentIDs,
		CreatedAt:  e.now(),
	}
	out := class.Clone()
	e.store.PutClass(class)
	return out, nil
}

// SendTaskReminder produces a teacher note on the student's feed for a
// recitation task the teacher owns.
func (e *Engine) SendTaskReminder(teacherID, taskID, message string) (*learner.Record, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	task, err := e.store.RecTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.TeacherID != teacherID {
		return nil, fmt.Errorf("task %s: %w", taskID, learner.ErrNotAuthorized)
	}
	if message == "" {
		message = fmt.Sprintf("Reminder: recitation of surah %d is waiting", task.Surah)
	}
	return e.mutate(task.StudentID, func(rec *learner.Record) error {
		now := e.now()
		rec.Notes.Append(learner.Note{TaskID: taskID, TeacherID: teacherID, Text: message, At: now})
		rec.Activity.Append(learner.Activity{Kind: "reminder", Message: message, At: now})
		return nil
	})
}
