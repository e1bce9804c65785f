package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rayyan/tahfiz/internal/config"
	"github.com/rayyan/tahfiz/internal/engine"
	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/memorization"
	"github.com/rayyan/tahfiz/internal/recitation"
	"github.com/rayyan/tahfiz/internal/scorer"
	"github.com/rayyan/tahfiz/internal/store"
)

// demoCmd walks one student through a full day: habit, reading, a scored
// recitation and a memorization review, journaling every event.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted walkthrough of the progress engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := setupLogger(cfg.Log)

		journal, err := store.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer journal.Close()

		memCfg := memorization.DefaultConfig()
		memCfg.RepetitionTarget = cfg.Rewards.RepetitionTarget
		memCfg.DailyPlanQuota = cfg.Rewards.DailyPlanQuota

		e := engine.New(
			engine.WithJournal(journal),
			engine.WithLogger(log),
			engine.WithMemorizationConfig(memCfg),
			engine.WithDailyTarget(cfg.Rewards.DailyTargetAyahs),
		)

		if _, err := e.Register(engine.Profile{ID: "demo-teacher", Name: "Ustadh Karim", Role: learner.RoleTeacher}); err != nil {
			return err
		}
		if _, err := e.Register(engine.Profile{ID: "demo-student", Name: "Amina", Role: learner.RoleStudent}); err != nil {
			return err
		}

		res, _, err := e.CompleteHabit("demo-student", "habit-daily-recitation")
		if err != nil {
			return err
		}
		fmt.Printf("Habit done: +%d XP, streak %d\n", res.XPGranted, res.HabitStreak)

		for ayah := 1; ayah <= 7; ayah++ {
			if _, _, err := e.RecordVerseRead("demo-student", fmt.Sprintf("1:%d", ayah)); err != nil {
				return err
			}
		}

		task, err := e.AssignRecitation("demo-teacher", "demo-student", 1, 1, 7, []string{"madd"}, "")
		if err != nil {
			return err
		}

		// The scorer runs before the engine mutation; the engine only
		// sees plain values.
		s, err := buildScorer(cfg.Scorer)
		if err != nil {
			return err
		}
		scored, err := s.Score(context.Background(), scorer.Request{
			Transcript:   "bismillahi rahmani rahim",
			ExpectedText: "bismillahi rahmani rahim",
		})
		if err != nil {
			return err
		}
		subRes, snap, err := e.SubmitRecitation("demo-student", recitation.Submission{
			TaskID:       task.ID,
			Surah:        1,
			FromAyah:     1,
			ToAyah:       7,
			Accuracy:     scored.Accuracy,
			TajweedScore: scored.TajweedScore,
			FluencyScore: scored.FluencyScore,
			Transcript:   scored.Transcript,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recitation at %d%%: +%d XP, rolling accuracy %d%%\n",
			subRes.Accuracy, subRes.XPGranted, subRes.RecitationPercent)

		dash, err := e.GetDashboard("demo-student")
		if err != nil {
			return err
		}
		fmt.Printf("\n%s — level %d, %d XP, %d hasanat, %d/%d ayahs today\n",
			snap.Profile.Name, dash.Stats.Level, dash.Stats.XP, dash.Stats.Hasanat,
			dash.DailyTarget.CompletedAyahs, dash.DailyTarget.TargetAyahs)
		for _, t := range dash.Tasks {
			fmt.Printf("  [%s] %s (%d/%d)\n", t.Status, t.Title, t.Progress, t.Target)
		}
		return nil
	},
}

// buildScorer resolves the configured scorer. Without an API key the
// walkthrough falls back to a canned offline scorer.
func buildScorer(cfg config.Scorer) (scorer.Scorer, error) {
	if cfg.APIKey == "" {
		return scorer.NewMockScorer(scorer.MockResponse{Result: &scorer.Result{
			Accuracy:     91,
			TajweedScore: 88,
			FluencyScore: 90,
			Transcript:   "bismillahi rahmani rahim",
		}}), nil
	}
	s, err := scorer.NewOpenAIScorer(scorer.OpenAIConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, err
	}
	return scorer.WithRetry(s, scorer.RetryConfig{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}), nil
}
