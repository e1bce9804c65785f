package recitation

import (
	"testing"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

func newStudent() *learner.Record {
	return learner.NewRecord(learner.Profile{ID: "stu-1", Name: "Amina", Role: learner.RoleStudent}, learner.DefaultCaps())
}

func newTask(status learner.RecitationStatus) *learner.RecitationTask {
	return &learner.RecitationTask{
		ID:         "rt-1",
		StudentID:  "stu-1",
		TeacherID:  "tch-1",
		Surah:      1,
		FromAyah:   1,
		ToAyah:     7,
		Status:     status,
		FocusAreas: []string{"madd"},
	}
}

func TestSubmitMovesTaskAndGrantsRewards(t *testing.T) {
	rec := newStudent()
	task := newTask(learner.RecitationAssigned)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()

	res := Submit(rec, task, nil, Submission{
		TaskID:          task.ID,
		Surah:           1,
		FromAyah:        1,
		ToAyah:          7,
		Accuracy:        86,
		TajweedScore:    80,
		FluencyScore:    75,
		HasanatEarned:   30,
		DurationSeconds: 300,
	}, "sess-1", now, cfg)

	if task.Status != learner.RecitationSubmitted {
		t.Fatalf("status = %s, want submitted", task.Status)
	}
	if task.LastScore != 86 {
		t.Errorf("lastScore = %d, want 86", task.LastScore)
	}
	if task.SubmittedAt == nil || !task.SubmittedAt.Equal(now) {
		t.Errorf("submittedAt = %v, want %v", task.SubmittedAt, now)
	}
	wantXP := cfg.XPFloor + 86/2
	if res.XPGranted != wantXP {
		t.Errorf("xp = %d, want %d", res.XPGranted, wantXP)
	}
	if rec.Stats.XP != wantXP {
		t.Errorf("stats xp = %d, want %d", rec.Stats.XP, wantXP)
	}
	if rec.Stats.Hasanat != 30 {
		t.Errorf("hasanat = %d, want 30", rec.Stats.Hasanat)
	}
	if rec.Stats.StudyMinutes != 5 {
		t.Errorf("study minutes = %d, want 5", rec.Stats.StudyMinutes)
	}
	if rec.Sessions.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", rec.Sessions.Len())
	}
	if rec.Stats.RecitationPercent != 86 {
		t.Errorf("recitation percent = %d, want 86", rec.Stats.RecitationPercent)
	}
}

func TestSubmitClampsScores(t *testing.T) {
	rec := newStudent()
	now := time.Now()

	res := Submit(rec, nil, nil, Submission{Accuracy: 130, TajweedScore: -5}, "sess-1", now, DefaultConfig())

	if res.Accuracy != 100 {
		t.Errorf("accuracy = %d, want 100", res.Accuracy)
	}
	s, ok := rec.Sessions.Newest()
	if !ok {
		t.Fatal("session missing")
	}
	if s.TajweedScore != 0 {
		t.Errorf("tajweed = %d, want 0", s.TajweedScore)
	}
}

func TestSubmitAfterReviewLeavesTaskAlone(t *testing.T) {
	rec := newStudent()
	task := newTask(learner.RecitationReviewed)
	task.LastScore = 90

	Submit(rec, task, nil, Submission{TaskID: task.ID, Accuracy: 60}, "sess-1", time.Now(), DefaultConfig())

	if task.Status != learner.RecitationReviewed {
		t.Errorf("status = %s, want reviewed", task.Status)
	}
	if task.LastScore != 90 {
		t.Errorf("lastScore = %d, want untouched 90", task.LastScore)
	}
	if rec.Sessions.Len() != 1 {
		t.Errorf("session should still be logged, got %d", rec.Sessions.Len())
	}
}

func TestRollingAccuracyUsesNewestWindow(t *testing.T) {
	rec := newStudent()
	cfg := DefaultConfig()
	now := time.Now()

	// Two old low sessions that should fall outside the window of ten.
	for i := 0; i < 2; i++ {
		Submit(rec, nil, nil, Submission{Accuracy: 10}, "old", now, cfg)
	}
	for i := 0; i < 10; i++ {
		Submit(rec, nil, nil, Submission{Accuracy: 80}, "new", now, cfg)
	}

	if rec.Stats.RecitationPercent != 80 {
		t.Errorf("recitation percent = %d, want 80", rec.Stats.RecitationPercent)
	}
}

func TestSubmitBlendsFocusAreas(t *testing.T) {
	rec := newStudent()
	rec.FocusAreas = append(rec.FocusAreas, &learner.FocusArea{Name: "madd", Score: 60, Target: 90, Status: learner.FocusNeedsSupport})
	task := newTask(learner.RecitationAssigned)
	task.FocusAreas = []string{"madd", "ghunnah"}
	cfg := DefaultConfig()

	Submit(rec, task, nil, Submission{TaskID: task.ID, Accuracy: 85, TajweedScore: 90}, "sess-1", time.Now(), cfg)

	madd := rec.FocusArea("madd")
	if madd.Score != 75 {
		t.Errorf("madd score = %d, want (60+90)/2 = 75", madd.Score)
	}
	if madd.Status != learner.FocusImproving {
		t.Errorf("madd status = %s, want improving", madd.Status)
	}
	ghunnah := rec.FocusArea("ghunnah")
	if ghunnah == nil {
		t.Fatal("ghunnah focus area should have been created")
	}
	if ghunnah.Score != 90 || ghunnah.Target != cfg.FocusTarget {
		t.Errorf("ghunnah = %d/%d, want 90/%d", ghunnah.Score, ghunnah.Target, cfg.FocusTarget)
	}
	if ghunnah.Status != learner.FocusMastered {
		t.Errorf("ghunnah status = %s, want mastered", ghunnah.Status)
	}
}

func TestReviewForcesTerminalStateAndSyncsAssignment(t *testing.T) {
	rec := newStudent()
	task := newTask(learner.RecitationAssigned)
	asg := &learner.Assignment{ID: "asg-1", TeacherID: "tch-1", Submissions: map[string]*learner.Submission{}}
	task.AssignmentID = asg.ID
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()

	Submit(rec, task, asg, Submission{TaskID: task.ID, Accuracy: 86, TajweedScore: 80}, "sess-1", now, cfg)
	if got := asg.Submissions["stu-1"].Score; got != 86 {
		t.Fatalf("assignment score after submit = %d, want 86", got)
	}

	res, err := Review(rec, task, asg, "tch-1", 90, 85, "watch the madd in ayah 4", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if task.Status != learner.RecitationReviewed {
		t.Errorf("status = %s, want reviewed", task.Status)
	}
	if task.LastScore != 90 || res.Accuracy != 90 {
		t.Errorf("lastScore = %d, result = %d, want 90", task.LastScore, res.Accuracy)
	}
	sub := asg.Submissions["stu-1"]
	if sub.Status != learner.RecitationReviewed || sub.Score != 90 {
		t.Errorf("assignment submission = %s/%d, want reviewed/90", sub.Status, sub.Score)
	}
	if rec.Notes.Len() != 1 {
		t.Fatalf("notes = %d, want 1", rec.Notes.Len())
	}
	note, _ := rec.Notes.Newest()
	if note.TeacherID != "tch-1" {
		t.Errorf("note teacher = %s, want tch-1", note.TeacherID)
	}
}

func TestReviewBeforeSubmissionIsConflict(t *testing.T) {
	rec := newStudent()
	task := newTask(learner.RecitationAssigned)

	_, err := Review(rec, task, nil, "tch-1", 90, 85, "", time.Now())
	if err == nil {
		t.Fatal("expected state conflict")
	}
	if task.Status != learner.RecitationAssigned {
		t.Errorf("status mutated on failed review: %s", task.Status)
	}
}

func TestSubmitXPRespectsAccountCurve(t *testing.T) {
	rec := newStudent()
	start := rec.Stats.Level
	now := time.Now()
	cfg := DefaultConfig()

	// Enough submissions to cross at least one level boundary.
	for i := 0; i < 12; i++ {
		Submit(rec, nil, nil, Submission{Accuracy: 90}, "sess", now, cfg)
	}

	if rec.Stats.Level <= start {
		t.Errorf("level = %d, want > %d", rec.Stats.Level, start)
	}
	if rec.Stats.XPToNext <= 0 || rec.Stats.XPToNext > leveling.AccountStep {
		t.Errorf("xpToNext = %d out of range", rec.Stats.XPToNext)
	}
}
