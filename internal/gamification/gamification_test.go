package gamification

import (
	"testing"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

func newRecord(t *testing.T) *learner.Record {
	t.Helper()
	rec := learner.NewRecord(learner.Profile{ID: "stu-1", Name: "Amina", Role: learner.RoleStudent}, learner.DefaultCaps())
	tasks, err := Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rec.Tasks = tasks
	return rec
}

func findTask(t *testing.T, rec *learner.Record, id string) *learner.QuestTask {
	t.Helper()
	for _, task := range rec.Tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not in catalog", id)
	return nil
}

func TestCatalogSeedsLockedTasks(t *testing.T) {
	tasks, err := Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("empty catalog")
	}
	for _, task := range tasks {
		if task.Status != learner.TaskLocked {
			t.Errorf("task %s seeded as %s, want locked", task.ID, task.Status)
		}
		if task.Target < 1 {
			t.Errorf("task %s target = %d", task.ID, task.Target)
		}
	}
	// Calls must not share task values.
	again, _ := Catalog()
	again[0].Progress = 99
	if tasks[0].Progress == 99 {
		t.Error("catalog calls share task pointers")
	}
}

func TestParseCatalogDefaultsAccuracyGates(t *testing.T) {
	raw := []byte(`{"tasks":[
		{"id":"r","title":"r","kind":"recitation","target":1},
		{"id":"m","title":"m","kind":"memorization","target":1},
		{"id":"h","title":"h","kind":"habit","target":1},
		{"id":"e","title":"e","kind":"recitation","target":1,"minAccuracy":95}
	]}`)
	tasks, err := parseCatalog(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]int{"r": RecitationGate, "m": MemorizationGate, "h": 0, "e": 95}
	for _, task := range tasks {
		if task.MinAccuracy != want[task.ID] {
			t.Errorf("task %s minAccuracy = %d, want %d", task.ID, task.MinAccuracy, want[task.ID])
		}
	}
}

func TestParseCatalogRejectsBadKind(t *testing.T) {
	raw := []byte(`{"tasks":[{"id":"x","title":"x","kind":"jogging","target":1}]}`)
	if _, err := parseCatalog(raw); err == nil {
		t.Fatal("expected schema validation failure")
	}
}

func TestHabitEventAdvancesAndCompletes(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	task := findTask(t, rec, "task-first-habit")
	startXP := rec.Stats.XP

	out := Apply(rec, []Event{{Kind: learner.TaskHabit, RefID: "h-1"}}, now)

	if task.Status != learner.TaskCompleted {
		t.Fatalf("status = %s, want completed", task.Status)
	}
	if len(out.CompletedTaskIDs) != 1 || out.CompletedTaskIDs[0] != task.ID {
		t.Errorf("completed = %v", out.CompletedTaskIDs)
	}
	if rec.Stats.XP != startXP+task.XPReward {
		t.Errorf("xp = %d, want %d", rec.Stats.XP, startXP+task.XPReward)
	}
	if rec.Stats.Hasanat != task.HasanatReward {
		t.Errorf("hasanat = %d, want %d", rec.Stats.Hasanat, task.HasanatReward)
	}
	if rec.Completions.Len() != 1 {
		t.Errorf("completions = %d, want 1", rec.Completions.Len())
	}
	if rec.Panel.Shield != 1 {
		t.Errorf("shield = %d, want 1", rec.Panel.Shield)
	}
}

func TestCompletionIsExactlyOnce(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	task := findTask(t, rec, "task-first-habit")

	Apply(rec, []Event{{Kind: learner.TaskHabit, RefID: "h-1"}}, now)
	xp := rec.Stats.XP
	hasanat := rec.Stats.Hasanat
	shield := rec.Panel.Shield

	out := Apply(rec, []Event{{Kind: learner.TaskHabit, RefID: "h-1"}}, now)

	if len(out.CompletedTaskIDs) != 0 {
		t.Errorf("replay completed %v", out.CompletedTaskIDs)
	}
	if task.Progress != task.Target {
		t.Errorf("progress = %d, want capped at %d", task.Progress, task.Target)
	}
	if rec.Stats.XP != xp || rec.Stats.Hasanat != hasanat {
		t.Error("replay granted rewards again")
	}
	if rec.Panel.Shield != shield {
		t.Errorf("shield = %d, want %d", rec.Panel.Shield, shield)
	}
}

func TestAccuracyGate(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	task := findTask(t, rec, "task-clean-recitation")

	Apply(rec, []Event{{Kind: learner.TaskRecitation, RefID: "rt-1", Accuracy: 84}}, now)
	if task.Progress != 0 {
		t.Fatalf("progress = %d after sub-threshold event, want 0", task.Progress)
	}
	if task.Status != learner.TaskLocked {
		t.Errorf("status = %s, want locked", task.Status)
	}

	Apply(rec, []Event{{Kind: learner.TaskRecitation, RefID: "rt-1", Accuracy: 85}}, now)
	if task.Progress != 1 {
		t.Fatalf("progress = %d, want 1", task.Progress)
	}
	if task.Status != learner.TaskInProgress {
		t.Errorf("status = %s, want in_progress", task.Status)
	}
}

func TestFilterIDBindsTask(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	bound := &learner.QuestTask{
		ID:       "task-bound",
		Title:    "Master Al-Fatihah",
		Kind:     learner.TaskMemorization,
		Status:   learner.TaskLocked,
		Target:   2,
		FilterID: "mt-7",
	}
	rec.Tasks = append(rec.Tasks, bound)

	Apply(rec, []Event{{Kind: learner.TaskMemorization, RefID: "mt-other", Accuracy: 100}}, now)
	if bound.Progress != 0 {
		t.Fatalf("progress = %d for mismatched id, want 0", bound.Progress)
	}

	Apply(rec, []Event{{Kind: learner.TaskMemorization, RefID: "mt-7", Accuracy: 100}}, now)
	if bound.Progress != 1 {
		t.Errorf("progress = %d, want 1", bound.Progress)
	}
}

func TestDailyTargetMirrorsAbsoluteProgress(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	task := findTask(t, rec, "task-daily-reader")

	Apply(rec, []Event{{Kind: learner.TaskDailyTarget, Amount: 4}}, now)
	if task.Progress != 4 {
		t.Fatalf("progress = %d, want 4", task.Progress)
	}

	// A reset can move the mirror back down.
	Apply(rec, []Event{{Kind: learner.TaskDailyTarget, Amount: 0}}, now)
	if task.Progress != 0 {
		t.Fatalf("progress = %d after reset, want 0", task.Progress)
	}

	Apply(rec, []Event{{Kind: learner.TaskDailyTarget, Amount: 25}}, now)
	if task.Progress != task.Target {
		t.Errorf("progress = %d, want clamped to %d", task.Progress, task.Target)
	}
	if task.Status != learner.TaskCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
}

func TestCompletionAdvancesSeasonAndPanel(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	rec.Panel.NextRewardIn = 3
	startEnergy := rec.Panel.Energy.Current
	task := findTask(t, rec, "task-first-habit")
	task.XPReward = leveling.SeasonBaseStep + 1 // enough for one season level

	Apply(rec, []Event{{Kind: learner.TaskHabit, RefID: "h-1"}}, now)

	if rec.Panel.Season.Level != 2 {
		t.Errorf("season level = %d, want 2", rec.Panel.Season.Level)
	}
	if rec.Panel.NextRewardIn != 2 {
		t.Errorf("nextRewardIn = %d, want 2", rec.Panel.NextRewardIn)
	}
	if rec.Panel.Energy.Current != startEnergy-1 {
		t.Errorf("energy = %d, want %d", rec.Panel.Energy.Current, startEnergy-1)
	}
}

func TestEnergyFloorsAtZero(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	rec.Panel.Energy.Current = 0
	task := findTask(t, rec, "task-first-habit")

	Apply(rec, []Event{{Kind: learner.TaskHabit, RefID: "h-1"}}, now)

	if rec.Panel.Energy.Current != 0 {
		t.Errorf("energy = %d, want floored at 0", rec.Panel.Energy.Current)
	}
	if task.Status != learner.TaskCompleted {
		t.Error("energy must never gate a completion")
	}
}

func TestShieldCountsPerBatch(t *testing.T) {
	rec := newRecord(t)
	now := time.Now()
	// Two one-shot tasks completable by a single batch of events.
	a := &learner.QuestTask{ID: "a", Title: "a", Kind: learner.TaskHabit, Status: learner.TaskLocked, Target: 1}
	b := &learner.QuestTask{ID: "b", Title: "b", Kind: learner.TaskMemorization, Status: learner.TaskLocked, Target: 1}
	rec.Tasks = []*learner.QuestTask{a, b}

	Apply(rec, []Event{
		{Kind: learner.TaskHabit, RefID: "h-1"},
		{Kind: learner.TaskMemorization, RefID: "mt-1", Accuracy: 100},
	}, now)

	if rec.Panel.Shield != 2 {
		t.Errorf("shield = %d, want 2", rec.Panel.Shield)
	}
}
