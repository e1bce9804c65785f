package learner

import "time"

// Class groups students under a teacher. Personal classes are auto-created
// private classes backing self-scoped plans.
type Class struct {
	ID         string
	Name       string
	TeacherID  string
	StudentIDs []string
	Personal   bool
	CreatedAt  time.Time
}

// HasStudent reports whether the student belongs to the class.
func (c *Class) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// PersonalSettings configures a self-scoped plan.
type PersonalSettings struct {
	Cadence     string
	CheckInDays []string
	Reminder    bool
}

// Plan is a memorization plan referencing validated verse keys. Verse keys
// never mutate without resetting dependent progress.
type Plan struct {
	ID        string
	Title     string
	VerseKeys []string
	OwnerID   string
	ClassIDs  []string
	Personal  *PersonalSettings
	CreatedAt time.Time
}

// VerseLog is one finished verse in a student's plan history.
type VerseLog struct {
	VerseKey    string
	Repetitions int
	At          time.Time
}

// PlanProgress tracks one student's linear walk through a plan.
// Once CompletedAt is set the verse index and repetition counter no
// longer change.
type PlanProgress struct {
	StudentID         string
	PlanID            string
	CurrentVerseIndex int
	RepetitionsDone   int
	TotalRepetitions  int
	CompletedAt       *time.Time
	History           []VerseLog
}

// Completed reports whether the plan has been finished by this student.
func (p *PlanProgress) Completed() bool {
	return p.CompletedAt != nil
}

// ReviewStatus is the due-date review queue lifecycle.
type ReviewStatus string

const (
	ReviewNew      ReviewStatus = "new"
	ReviewDue      ReviewStatus = "due"
	ReviewLearning ReviewStatus = "learning"
	ReviewMastered ReviewStatus = "mastered"
)

// MemorizationTask is an entry in the independent due-date review queue.
// It is mutated only by the review algorithm.
type MemorizationTask struct {
	ID           string
	StudentID    string
	VerseKeys    []string
	Status       ReviewStatus
	IntervalDays int
	Repetitions  int
	EaseFactor   float64
	// Confidence is the memorization confidence in [0,1], smoothed toward
	// each review's accuracy.
	Confidence float64
	DueDate    time.Time
	NextReview time.Time
	CreatedAt  time.Time
}

// RecitationStatus is the recitation task lifecycle: forward-only, and
// only a teacher review moves submitted to reviewed.
type RecitationStatus string

const (
	RecitationAssigned  RecitationStatus = "assigned"
	RecitationSubmitted RecitationStatus = "submitted"
	RecitationReviewed  RecitationStatus = "reviewed"
)

// CanAdvanceTo reports whether the transition is legal.
func (s RecitationStatus) CanAdvanceTo(next RecitationStatus) bool {
	switch s {
	case RecitationAssigned:
		return next == RecitationSubmitted
	case RecitationSubmitted:
		return next == RecitationSubmitted || next == RecitationReviewed
	default:
		return false
	}
}

// RecitationTask is a teacher-issued or self-started recitation task.
type RecitationTask struct {
	ID           string
	StudentID    string
	TeacherID    string
	Surah        int
	FromAyah     int
	ToAyah       int
	Status       RecitationStatus
	LastScore    int
	FocusAreas   []string
	AssignmentID string
	CreatedAt    time.Time
	SubmittedAt  *time.Time
	ReviewedAt   *time.Time
}

// Submission is one student's standing on an assignment.
type Submission struct {
	Status      RecitationStatus
	Score       int
	SubmittedAt *time.Time
}

// Assignment is a teacher-issued assignment tracking per-student
// submissions.
type Assignment struct {
	ID          string
	TeacherID   string
	Title       string
	Submissions map[string]*Submission
	CreatedAt   time.Time
}
