package learner

import (
	"errors"
	"testing"
	"time"

	"github.com/rayyan/tahfiz/internal/leveling"
)

func testProfile(id string, role Role) Profile {
	return Profile{
		ID:           id,
		Name:         "Test " + id,
		Email:        id + "@example.com",
		Role:         role,
		Locale:       "en",
		Subscription: SubscriptionFree,
		JoinedAt:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAddLearnerRejectsDuplicate(t *testing.T) {
	s := NewStore()
	rec := NewRecord(testProfile("u1", RoleStudent), DefaultCaps())
	if err := s.AddLearner(rec); err != nil {
		t.Fatalf("AddLearner: %v", err)
	}
	err := s.AddLearner(NewRecord(testProfile("u1", RoleStudent), DefaultCaps()))
	if !errors.Is(err, ErrStateConflict) {
		t.Errorf("duplicate AddLearner err = %v, want ErrStateConflict", err)
	}
}

func TestWithLearnerUnknownID(t *testing.T) {
	s := NewStore()
	err := s.WithLearner("ghost", func(rec *Record) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore()
	rec := NewRecord(testProfile("u1", RoleStudent), DefaultCaps())
	rec.Habits = append(rec.Habits, &HabitQuest{Progress: leveling.NewProgress(leveling.HabitStep), ID: "h1", Name: "Fajr recitation"})
	rec.Tasks = append(rec.Tasks, &QuestTask{ID: "t1", Kind: TaskHabit, Status: TaskLocked, Target: 3})
	if err := s.AddLearner(rec); err != nil {
		t.Fatalf("AddLearner: %v", err)
	}

	snap, err := s.Snapshot("u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// Mutating the snapshot must never touch stored state.
	snap.Stats.Hasanat = 999
	snap.Habits[0].Streak = 42
	snap.Tasks[0].Progress = 7
	snap.Meta.CreditedVerses["1:1"] = true
	snap.Activity.Append(Activity{Kind: "test"})

	err = s.WithLearner("u1", func(stored *Record) error {
		if stored.Stats.Hasanat != 0 {
			t.Errorf("stored Hasanat = %d, want 0", stored.Stats.Hasanat)
		}
		if stored.Habits[0].Streak != 0 {
			t.Errorf("stored habit streak = %d, want 0", stored.Habits[0].Streak)
		}
		if stored.Tasks[0].Progress != 0 {
			t.Errorf("stored task progress = %d, want 0", stored.Tasks[0].Progress)
		}
		if stored.Meta.CreditedVerses["1:1"] {
			t.Error("stored credited-verse set changed through snapshot")
		}
		if stored.Activity.Len() != 0 {
			t.Errorf("stored activity len = %d, want 0", stored.Activity.Len())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithLearner: %v", err)
	}
}

func TestDeletePlanDropsDependentProgress(t *testing.T) {
	s := NewStore()
	s.PutPlan(&Plan{ID: "p1", Title: "Juz Amma", VerseKeys: []string{"78:1"}})
	s.PutProgress(&PlanProgress{StudentID: "u1", PlanID: "p1"})
	s.PutProgress(&PlanProgress{StudentID: "u2", PlanID: "p1"})
	s.PutProgress(&PlanProgress{StudentID: "u1", PlanID: "p2"})

	s.DeletePlan("p1")

	if _, err := s.Plan("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Plan(p1) err = %v, want ErrNotFound", err)
	}
	if _, err := s.Progress("p1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Progress(p1,u1) err = %v, want ErrNotFound", err)
	}
	if _, err := s.Progress("p2", "u1"); err != nil {
		t.Errorf("Progress(p2,u1) unexpectedly removed: %v", err)
	}
}

func TestPlansForClasses(t *testing.T) {
	s := NewStore()
	s.PutPlan(&Plan{ID: "p1", ClassIDs: []string{"c1", "c2"}})
	s.PutPlan(&Plan{ID: "p2", ClassIDs: []string{"c3"}})

	got := s.PlansForClasses([]string{"c2"})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("PlansForClasses = %v, want [p1]", got)
	}
	if got := s.PlansForClasses(nil); len(got) != 0 {
		t.Errorf("PlansForClasses(nil) returned %d plans, want 0", len(got))
	}
}

func TestDayGap(t *testing.T) {
	now := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC)
	cases := []struct {
		prev    string
		wantGap int
		wantOK  bool
	}{
		{"2024-01-04", 1, true},
		{"2024-01-01", 4, true},
		{"2024-01-05", 0, true},
		{"", 0, false},
		{"not-a-date", 0, false},
	}
	for _, tc := range cases {
		gap, ok := DayGap(tc.prev, now)
		if gap != tc.wantGap || ok != tc.wantOK {
			t.Errorf("DayGap(%q) = %d, %v; want %d, %v", tc.prev, gap, ok, tc.wantGap, tc.wantOK)
		}
	}
}

func TestAdvanceStreak(t *testing.T) {
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	if got := AdvanceStreak(3, "2024-01-04", now); got != 4 {
		t.Errorf("consecutive day streak = %d, want 4", got)
	}
	if got := AdvanceStreak(9, "2024-01-01", now); got != 1 {
		t.Errorf("gap-4 streak = %d, want 1", got)
	}
	if got := AdvanceStreak(0, "", now); got != 1 {
		t.Errorf("first completion streak = %d, want 1", got)
	}
}

func TestRecitationStatusTransitions(t *testing.T) {
	if !RecitationAssigned.CanAdvanceTo(RecitationSubmitted) {
		t.Error("assigned -> submitted must be legal")
	}
	if RecitationReviewed.CanAdvanceTo(RecitationSubmitted) {
		t.Error("reviewed -> submitted must be illegal")
	}
	if RecitationSubmitted.CanAdvanceTo(RecitationAssigned) {
		t.Error("submitted -> assigned must be illegal")
	}
	if !RecitationSubmitted.CanAdvanceTo(RecitationReviewed) {
		t.Error("submitted -> reviewed must be legal")
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	if !TaskLocked.CanAdvanceTo(TaskInProgress) {
		t.Error("locked -> in_progress must be legal")
	}
	if TaskCompleted.CanAdvanceTo(TaskInProgress) {
		t.Error("completed is terminal")
	}
}

func TestDailyTargetRemaining(t *testing.T) {
	d := DailyTarget{TargetAyahs: 10, CompletedAyahs: 4}
	if got := d.Remaining(); got != 6 {
		t.Errorf("Remaining = %d, want 6", got)
	}
	d.CompletedAyahs = 15 // progress may exceed the target
	if got := d.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}
