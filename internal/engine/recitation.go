package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rayyan/tahfiz/internal/gamification"
	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/quran"
	"github.com/rayyan/tahfiz/internal/recitation"
)

// AssignRecitation issues a recitation task from a teacher to a student,
// optionally linked to an assignment.
func (e *Engine) AssignRecitation(teacherID, studentID string, surah, fromAyah, toAyah int, focusAreas []string, assignmentID string) (*learner.RecitationTask, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	if _, err := e.store.Snapshot(studentID); err != nil {
		return nil, err
	}
	if _, err := quran.ExpandRange(surah, fromAyah, toAyah); err != nil {
		return nil, fmt.Errorf("%v: %w", err, learner.ErrValidation)
	}
	if assignmentID != "" {
		if _, err := e.store.Assignment(assignmentID); err != nil {
			return nil, err
		}
	}
	task := &learner.RecitationTask{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		TeacherID:    teacherID,
		Surah:        surah,
		FromAyah:     fromAyah,
		ToAyah:       toAyah,
		Status:       learner.RecitationAssigned,
		FocusAreas:   append([]string(nil), focusAreas...),
		AssignmentID: assignmentID,
		CreatedAt:    e.now(),
	}
	out := task.Clone()
	e.store.PutRecTask(task)
	return out, nil
}

// CreateAssignment registers a teacher assignment shell that recitation
// tasks can link to.
func (e *Engine) CreateAssignment(teacherID, title string) (*learner.Assignment, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, learner.NewValidationError("title", "must not be empty")
	}
	a := &learner.Assignment{
		ID:          uuid.NewString(),
		TeacherID:   teacherID,
		Title:       title,
		Submissions: make(map[string]*learner.Submission),
		CreatedAt:   e.now(),
	}
	out := a.Clone()
	e.store.PutAssignment(a)
	return out, nil
}

// SubmitRecitation ingests one scored attempt. Scoring happens before
// this call; results arrive as plain values. The attempt is always
// logged; the linked task moves to submitted unless a teacher already
// reviewed it.
func (e *Engine) SubmitRecitation(studentID string, sub recitation.Submission) (*recitation.Result, *learner.Record, error) {
	if _, err := quran.ExpandRange(sub.Surah, sub.FromAyah, sub.ToAyah); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, learner.ErrValidation)
	}
	task, assignment, err := e.resolveTask(studentID, sub.TaskID)
	if err != nil {
		return nil, nil, err
	}

	var result *recitation.Result
	snap, err := e.mutate(studentID, func(rec *learner.Record) error {
		e.store.WithCatalog(func() {
			result = recitation.Submit(rec, task, assignment, sub, uuid.NewString(), e.now(), e.recCfg)
		})
		e.raise(rec, []gamification.Event{{Kind: learner.TaskRecitation, RefID: sub.TaskID, Accuracy: result.Accuracy}})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// ReviewRecitation records a teacher's review of a submitted task. The
// recitation event is re-raised so tasks gated on teacher approval can
// complete.
func (e *Engine) ReviewRecitation(teacherID, taskID string, accuracy, tajweedScore int, notes string) (*recitation.Result, *learner.Record, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, nil, err
	}
	task, err := e.store.RecTask(taskID)
	if err != nil {
		return nil, nil, err
	}
	if task.TeacherID != teacherID {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, learner.ErrNotAuthorized)
	}
	assignment := e.linkedAssignment(task)

	var result *recitation.Result
	snap, err := e.mutate(task.StudentID, func(rec *learner.Record) error {
		var res *recitation.Result
		var revErr error
		e.store.WithCatalog(func() {
			res, revErr = recitation.Review(rec, task, assignment, teacherID, accuracy, tajweedScore, notes, e.now())
		})
		if revErr != nil {
			return revErr
		}
		result = res
		e.raise(rec, []gamification.Event{{Kind: learner.TaskRecitation, RefID: taskID, Accuracy: res.Accuracy}})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snap, nil
}

// resolveTask looks up the optional task id and its linked assignment,
// checking the task belongs to the submitting student.
func (e *Engine) resolveTask(studentID, taskID string) (*learner.RecitationTask, *learner.Assignment, error) {
	if taskID == "" {
		return nil, nil, nil
	}
	task, err := e.store.RecTask(taskID)
	if err != nil {
		return nil, nil, err
	}
	if task.StudentID != studentID {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, learner.ErrNotAuthorized)
	}
	return task, e.linkedAssignment(task), nil
}

func (e *Engine) linkedAssignment(task *learner.RecitationTask) *learner.Assignment {
	if task.AssignmentID == "" {
		return nil
	}
	a, err := e.store.Assignment(task.AssignmentID)
	if err != nil {
		e.log.Warn("recitation task links missing assignment", "task", task.ID, "assignment", task.AssignmentID)
		return nil
	}
	return a
}
