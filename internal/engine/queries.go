package engine

import (
	"github.com/rayyan/tahfiz/internal/learner"
)

// Snapshot returns the full detached record for a learner.
func (e *Engine) Snapshot(learnerID string) (*learner.Record, error) {
	return e.store.Snapshot(learnerID)
}

// GetProfile returns the learner's identity.
func (e *Engine) GetProfile(learnerID string) (learner.Profile, error) {
	rec, err := e.store.Snapshot(learnerID)
	if err != nil {
		return learner.Profile{}, err
	}
	return rec.Profile, nil
}

// GetStats returns the account-level counters.
func (e *Engine) GetStats(learnerID string) (learner.Stats, error) {
	rec, err := e.store.Snapshot(learnerID)
	if err != nil {
		return learner.Stats{}, err
	}
	return rec.Stats, nil
}

// GetHabits returns the learner's habit quests.
func (e *Engine) GetHabits(learnerID string) ([]*learner.HabitQuest, error) {
	rec, err := e.store.Snapshot(learnerID)
	if err != nil {
		return nil, err
	}
	return rec.Habits, nil
}

// Dashboard is the learner-facing overview.
type Dashboard struct {
	Profile     learner.Profile
	Stats       learner.Stats
	DailyTarget learner.DailyTarget
	Panel       learner.Panel
	Tasks       []*learner.QuestTask
	FocusAreas  []*learner.FocusArea
	Activity    []learner.Activity
	Heatmap     []learner.HeatDay
}

// GetDashboard assembles the overview from a single snapshot.
func (e *Engine) GetDashboard(learnerID string) (*Dashboard, error) {
	rec, err := e.store.Snapshot(learnerID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Profile:     rec.Profile,
		Stats:       rec.Stats,
		DailyTarget: rec.DailyTarget,
		Panel:       rec.Panel,
		Tasks:       rec.Tasks,
		FocusAreas:  rec.FocusAreas,
		Activity:    rec.Activity.All(),
		Heatmap:     rec.Heatmap.All(),
	}, nil
}

// PlansForStudent lists plans visible to the student through class
// membership.
func (e *Engine) PlansForStudent(studentID string) ([]*learner.Plan, error) {
	if _, err := e.store.Snapshot(studentID); err != nil {
		return nil, err
	}
	classIDs := e.store.ClassesForStudent(studentID)
	return e.store.PlansForClasses(classIDs), nil
}

// TeacherClasses lists the classes a teacher owns.
func (e *Engine) TeacherClasses(teacherID string) ([]*learner.Class, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	return e.store.ClassesOwnedBy(teacherID), nil
}

// TeacherAssignments lists a teacher's assignments.
func (e *Engine) TeacherAssignments(teacherID string) ([]*learner.Assignment, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	return e.store.AssignmentsForTeacher(teacherID), nil
}

// TeacherRecitationTasks lists the recitation tasks a teacher issued.
func (e *Engine) TeacherRecitationTasks(teacherID string) ([]*learner.RecitationTask, error) {
	if err := e.requireTeacher(teacherID); err != nil {
		return nil, err
	}
	return e.store.RecTasksForTeacher(teacherID), nil
}

// PlanProgressForTeacher lists per-student progress for a plan the
// teacher owns.
func (e *Engine) PlanProgressForTeacher(teacherID, planID string) ([]*learner.PlanProgress, error) {
	plan, err := e.store.Plan(planID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != teacherID {
		return nil, learner.ErrNotAuthorized
	}
	return e.store.ProgressForPlan(planID), nil
}

// requireTeacher checks the learner exists and carries the teacher role.
func (e *Engine) requireTeacher(id string) error {
	rec, err := e.store.Snapshot(id)
	if err != nil {
		return err
	}
	if rec.Profile.Role != learner.RoleTeacher {
		return learner.ErrNotAuthorized
	}
	return nil
}
