// Package engine is the mutation and query facade over the learner
// store. Every command validates before committing, applies atomically
// under the learner's lock, raises gamification events, and returns a
// detached snapshot of the resulting state.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rayyan/tahfiz/internal/gamification"
	"github.com/rayyan/tahfiz/internal/habit"
	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
	"github.com/rayyan/tahfiz/internal/memorization"
	"github.com/rayyan/tahfiz/internal/recitation"
)

// Journal receives domain events for the append-only log. Appends are
// best-effort: a failing journal never aborts the mutation that raised
// the event.
type Journal interface {
	Append(kind, learnerID string, payload any) error
}

// Engine owns the in-memory learner state and all entry points.
type Engine struct {
	store   *learner.Store
	journal Journal
	log     *slog.Logger
	now     func() time.Time

	habitCfg    habit.Config
	memCfg      memorization.Config
	recCfg      recitation.Config
	dailyTarget int
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal attaches an event journal.
func WithJournal(j Journal) Option { return func(e *Engine) { e.journal = j } }

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithHabitConfig overrides the habit reward table.
func WithHabitConfig(cfg habit.Config) Option { return func(e *Engine) { e.habitCfg = cfg } }

// WithMemorizationConfig overrides the memorization tuning.
func WithMemorizationConfig(cfg memorization.Config) Option { return func(e *Engine) { e.memCfg = cfg } }

// WithRecitationConfig overrides the recitation tuning.
func WithRecitationConfig(cfg recitation.Config) Option { return func(e *Engine) { e.recCfg = cfg } }

// WithDailyTarget sets the ayah target new learners start with.
func WithDailyTarget(ayahs int) Option {
	return func(e *Engine) {
		if ayahs > 0 {
			e.dailyTarget = ayahs
		}
	}
}

// New builds an engine with default tuning.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:    learner.NewStore(),
		log:      slog.Default(),
		now:      time.Now,
		habitCfg:    habit.DefaultConfig(),
		memCfg:      memorization.DefaultConfig(),
		recCfg:      recitation.DefaultConfig(),
		dailyTarget: learner.DefaultDailyTarget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register creates a learner record seeded with the default habit set
// and the gamification task catalog.
func (e *Engine) Register(profile Profile) (*learner.Record, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Name == "" {
		return nil, learner.NewValidationError("name", "must not be empty")
	}
	rec := learner.NewRecord(learner.Profile{
		ID:           profile.ID,
		Name:         profile.Name,
		Email:        profile.Email,
		Role:         profile.Role,
		Locale:       profile.Locale,
		Subscription: profile.Subscription,
		JoinedAt:     e.now(),
	}, learner.DefaultCaps())
	rec.DailyTarget.TargetAyahs = e.dailyTarget
	rec.Habits = defaultHabits()

	tasks, err := gamification.Catalog()
	if err != nil {
		return nil, fmt.Errorf("seed task catalog: %w", err)
	}
	rec.Tasks = tasks

	if err := e.store.AddLearner(rec); err != nil {
		return nil, err
	}
	return e.store.Snapshot(profile.ID)
}

// Profile is the registration input.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Role         learner.Role
	Locale       string
	Subscription learner.Subscription
}

func defaultHabits() []*learner.HabitQuest {
	mk := func(id, name string, diff learner.Difficulty) *learner.HabitQuest {
		return &learner.HabitQuest{
			Progress:   leveling.NewProgress(leveling.HabitStep),
			ID:         id,
			Name:       name,
			Difficulty: diff,
		}
	}
	return []*learner.HabitQuest{
		mk("habit-daily-recitation", "Recite after Fajr", learner.DifficultyEasy),
		mk("habit-review-session", "Review yesterday's passage", learner.DifficultyMedium),
		mk("habit-new-memorization", "Memorize a new passage", learner.DifficultyHard),
	}
}

// raise runs the gamification reducer over a batch of events and
// journals them. Event propagation never aborts the primary mutation:
// malformed events are logged and skipped.
func (e *Engine) raise(rec *learner.Record, events []gamification.Event) gamification.Outcome {
	valid := events[:0]
	for _, ev := range events {
		switch ev.Kind {
		case learner.TaskHabit, learner.TaskRecitation, learner.TaskMemorization, learner.TaskDailyTarget:
			valid = append(valid, ev)
		default:
			e.log.Warn("skipping malformed domain event", "kind", ev.Kind, "learner", rec.Profile.ID)
		}
	}
	out := gamification.Apply(rec, valid, e.now())
	for _, ev := range valid {
		e.journalAppend(string(ev.Kind), rec.Profile.ID, ev)
	}
	return out
}

func (e *Engine) journalAppend(kind, learnerID string, payload any) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(kind, learnerID, payload); err != nil {
		e.log.Warn("journal append failed", "kind", kind, "learner", learnerID, "error", err)
	}
}

// mutate runs fn under the learner's lock and returns a detached
// snapshot on success.
func (e *Engine) mutate(learnerID string, fn func(rec *learner.Record) error) (*learner.Record, error) {
	if err := e.store.WithLearner(learnerID, fn); err != nil {
		return nil, err
	}
	return e.store.Snapshot(learnerID)
}
