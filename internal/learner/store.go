package learner

import (
	"fmt"
	"sync"

	"github.com/rayyan/tahfiz/internal/leveling"
	"github.com/rayyan/tahfiz/internal/ring"
)

// Caps sets the capacities of the record's capped logs.
type Caps struct {
	Activity    int
	Sessions    int
	Notes       int
	Heatmap     int
	Completions int
}

// DefaultCaps returns the reference capacities.
func DefaultCaps() Caps {
	return Caps{
		Activity:    50,
		Sessions:    50,
		Notes:       20,
		Heatmap:     90,
		Completions: 25,
	}
}

// Store is the sole owner of learner records and the shared catalog
// (classes, plans, progress, tasks, assignments).
//
// Mutations to a learner record are serialized by a per-learner lock;
// operations on different learners run in parallel. The catalog maps have
// their own lock guarding map structure only: a catalog entry belongs to
// exactly one learner (its student for progress/tasks, its teacher for
// plans/classes/assignments), so entry mutation is serialized by that
// learner's lock.
type Store struct {
	mu       sync.Mutex
	learners map[string]*Record
	locks    map[string]*sync.Mutex

	catMu       sync.RWMutex
	classes     map[string]*Class
	plans       map[string]*Plan
	progress    map[string]*PlanProgress
	memTasks    map[string]*MemorizationTask
	recTasks    map[string]*RecitationTask
	assignments map[string]*Assignment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		learners:    make(map[string]*Record),
		locks:       make(map[string]*sync.Mutex),
		classes:     make(map[string]*Class),
		plans:       make(map[string]*Plan),
		progress:    make(map[string]*PlanProgress),
		memTasks:    make(map[string]*MemorizationTask),
		recTasks:    make(map[string]*RecitationTask),
		assignments: make(map[string]*Assignment),
	}
}

// NewRecord builds a fresh record for a profile with empty capped logs.
func NewRecord(profile Profile, caps Caps) *Record {
	return &Record{
		Profile: profile,
		Stats:   Stats{Progress: leveling.NewProgress(leveling.AccountStep)},
		DailyTarget: DailyTarget{
			TargetAyahs: DefaultDailyTarget,
			LastUpdated: profile.JoinedAt,
		},
		Panel: Panel{
			Season: leveling.NewProgress(leveling.SeasonBaseStep),
			Energy: Energy{Current: 5, Max: 5},
		},
		Activity:    newLog[Activity](caps.Activity),
		Sessions:    newLog[Session](caps.Sessions),
		Notes:       newLog[Note](caps.Notes),
		Heatmap:     newLog[HeatDay](caps.Heatmap),
		Completions: newLog[CompletionEntry](caps.Completions),
		Meta: Meta{
			CreditedVerses: make(map[string]bool),
			SurahLog:       make(map[string]bool),
		},
	}
}

// AddLearner registers a record. It fails when the learner id is already
// present.
func (s *Store) AddLearner(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := rec.Profile.ID
	if _, ok := s.learners[id]; ok {
		return fmt.Errorf("learner %s: %w", id, ErrStateConflict)
	}
	s.learners[id] = rec
	s.locks[id] = &sync.Mutex{}
	return nil
}

// lockFor returns the learner's lock, or an error for unknown ids.
func (s *Store) lockFor(id string) (*sync.Mutex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[id]
	if !ok {
		return nil, fmt.Errorf("learner %s: %w", id, ErrNotFound)
	}
	return lk, nil
}

// WithLearner runs fn with exclusive access to the learner's record.
// The record pointer must not escape fn.
func (s *Store) WithLearner(id string, fn func(rec *Record) error) error {
	lk, err := s.lockFor(id)
	if err != nil {
		return err
	}
	lk.Lock()
	defer lk.Unlock()
	s.mu.Lock()
	rec := s.learners[id]
	s.mu.Unlock()
	return fn(rec)
}

// Snapshot returns a detached deep copy of the learner's record.
func (s *Store) Snapshot(id string) (*Record, error) {
	var snap *Record
	err := s.WithLearner(id, func(rec *Record) error {
		snap = rec.Clone()
		return nil
	})
	return snap, err
}

// progressKey builds the composite (plan, student) key.
// WithCatalog runs fn under the catalog write lock. Commands mutate
// catalog entries (tasks, assignments, plans, progress) through it so
// that list readers cloning under the read lock never observe a
// concurrent write. fn must not call back into store methods.
func (s *Store) WithCatalog(fn func()) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	fn()
}

func progressKey(planID, studentID string) string {
	return planID + "/" + studentID
}

// Class returns the class with the given id, or ErrNotFound.
func (s *Store) Class(id string) (*Class, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	c, ok := s.classes[id]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// PutClass stores a class.
func (s *Store) PutClass(c *Class) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.classes[c.ID] = c
}

// ClassesForStudent returns ids of classes the student belongs to.
func (s *Store) ClassesForStudent(studentID string) []string {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var ids []string
	for id, c := range s.classes {
		if c.HasStudent(studentID) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClassesOwnedBy returns detached copies of a teacher's classes.
func (s *Store) ClassesOwnedBy(teacherID string) []*Class {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*Class
	for _, c := range s.classes {
		if c.TeacherID == teacherID {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Plan returns the plan with the given id, or ErrNotFound.
func (s *Store) Plan(id string) (*Plan, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// PutPlan stores a plan.
func (s *Store) PutPlan(p *Plan) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.plans[p.ID] = p
}

// DeletePlan removes a plan and every progress record that depends on it.
func (s *Store) DeletePlan(id string) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	delete(s.plans, id)
	for key, pr := range s.progress {
		if pr.PlanID == id {
			delete(s.progress, key)
		}
	}
}

// PlansForClasses returns detached copies of plans assigned to any of the
// given class ids.
func (s *Store) PlansForClasses(classIDs []string) []*Plan {
	member := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		member[id] = true
	}
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*Plan
	for _, p := range s.plans {
		for _, cid := range p.ClassIDs {
			if member[cid] {
				out = append(out, p.Clone())
				break
			}
		}
	}
	return out
}

// Progress returns the (plan, student) progress record, or ErrNotFound.
func (s *Store) Progress(planID, studentID string) (*PlanProgress, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	pr, ok := s.progress[progressKey(planID, studentID)]
	if !ok {
		return nil, fmt.Errorf("progress %s/%s: %w", planID, studentID, ErrNotFound)
	}
	return pr, nil
}

// PutProgress stores a progress record.
func (s *Store) PutProgress(pr *PlanProgress) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.progress[progressKey(pr.PlanID, pr.StudentID)] = pr
}

// ResetProgressForPlan drops all progress for a plan. Used when a plan's
// verse keys change.
func (s *Store) ResetProgressForPlan(planID string) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	for key, pr := range s.progress {
		if pr.PlanID == planID {
			delete(s.progress, key)
		}
	}
}

// ProgressForPlan returns detached copies of every student's progress on
// the plan.
func (s *Store) ProgressForPlan(planID string) []*PlanProgress {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*PlanProgress
	for _, pr := range s.progress {
		if pr.PlanID == planID {
			out = append(out, pr.Clone())
		}
	}
	return out
}

// MemTask returns the review task with the given id, or ErrNotFound.
func (s *Store) MemTask(id string) (*MemorizationTask, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	t, ok := s.memTasks[id]
	if !ok {
		return nil, fmt.Errorf("memorization task %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// PutMemTask stores a review task.
func (s *Store) PutMemTask(t *MemorizationTask) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.memTasks[t.ID] = t
}

// MemTasksForStudent returns detached copies of a student's review queue.
func (s *Store) MemTasksForStudent(studentID string) []*MemorizationTask {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*MemorizationTask
	for _, t := range s.memTasks {
		if t.StudentID == studentID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// RecTask returns the recitation task with the given id, or ErrNotFound.
func (s *Store) RecTask(id string) (*RecitationTask, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	t, ok := s.recTasks[id]
	if !ok {
		return nil, fmt.Errorf("recitation task %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// PutRecTask stores a recitation task.
func (s *Store) PutRecTask(t *RecitationTask) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.recTasks[t.ID] = t
}

// RecTasksForTeacher returns detached copies of a teacher's recitation
// tasks.
func (s *Store) RecTasksForTeacher(teacherID string) []*RecitationTask {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*RecitationTask
	for _, t := range s.recTasks {
		if t.TeacherID == teacherID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Assignment returns the assignment with the given id, or ErrNotFound.
func (s *Store) Assignment(id string) (*Assignment, error) {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// PutAssignment stores an assignment.
func (s *Store) PutAssignment(a *Assignment) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	s.assignments[a.ID] = a
}

// AssignmentsForTeacher returns detached copies of a teacher's
// assignments.
func (s *Store) AssignmentsForTeacher(teacherID string) []*Assignment {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	var out []*Assignment
	for _, a := range s.assignments {
		if a.TeacherID == teacherID {
			out = append(out, a.Clone())
		}
	}
	return out
}

func newLog[T any](capacity int) *ring.Log[T] {
	return ring.New[T](capacity)
}
