package memorization

import (
	"math"
	"time"

	"github.com/rayyan/tahfiz/internal/learner"
	"github.com/rayyan/tahfiz/internal/leveling"
)

// NewTask creates a review-queue entry for a verse set, due tomorrow.
func NewTask(id, studentID string, verseKeys []string, now time.Time) *learner.MemorizationTask {
	return &learner.MemorizationTask{
		ID:           id,
		StudentID:    studentID,
		VerseKeys:    verseKeys,
		Status:       learner.ReviewNew,
		IntervalDays: 1,
		EaseFactor:   EaseInit,
		DueDate:      now.AddDate(0, 0, 1),
		NextReview:   now.AddDate(0, 0, 1),
		CreatedAt:    now,
	}
}

// Outcome reports a review's effect.
type Outcome struct {
	Status       learner.ReviewStatus
	IntervalDays int
	EaseFactor   float64
	Confidence   float64
	NextReview   time.Time
	XPGranted    int
	Hasanat      int
}

// Review applies one graded recall to the task. Quality runs 0..5
// (clamped); accuracy is a percentage (clamped to [0,100]).
//
// Successful recalls (quality >= 3) grow the interval — by the ease
// factor at quality >= 4, by a smaller fixed multiplier at quality 3 —
// and nudge the ease factor by 0.05 per quality point away from 3.
// Failed recalls reset the interval to one day and charge an ease
// penalty. The ease factor never leaves [EaseMin, EaseMax] and the
// interval never drops below one day.
func Review(task *learner.MemorizationTask, quality, accuracy int, now time.Time, cfg Config) *Outcome {
	quality = clampQuality(quality)
	accuracy = leveling.ClampScore(accuracy)

	if quality >= 3 {
		task.Repetitions++
		mult := GoodMultiplier
		if quality >= 4 {
			mult = task.EaseFactor
		}
		task.IntervalDays = int(math.Round(float64(task.IntervalDays) * mult))
		if task.IntervalDays < 1 {
			task.IntervalDays = 1
		}
		task.EaseFactor = clampEase(task.EaseFactor + float64(quality-3)*EaseStep)
	} else {
		task.IntervalDays = 1
		task.EaseFactor = clampEase(task.EaseFactor - EaseFailPenalty)
	}

	// Confidence is smoothed toward the review accuracy, never jumping
	// directly to the new value.
	task.Confidence += ConfidenceSmoothing * (float64(accuracy)/100 - task.Confidence)

	switch {
	case quality >= MasteryQuality && accuracy >= MasteryAccuracy:
		task.Status = learner.ReviewMastered
	case quality >= 3:
		task.Status = learner.ReviewLearning
	default:
		task.Status = learner.ReviewDue
	}

	task.DueDate = now.AddDate(0, 0, task.IntervalDays)
	task.NextReview = task.DueDate

	xp := cfg.ReviewXPBase + accuracy/4
	hasanat := accuracy / 10
	return &Outcome{
		Status:       task.Status,
		IntervalDays: task.IntervalDays,
		EaseFactor:   task.EaseFactor,
		Confidence:   task.Confidence,
		NextReview:   task.NextReview,
		XPGranted:    xp,
		Hasanat:      hasanat,
	}
}

// RecordHeat bumps today's slot in the review heatmap and advances the
// review streak on day change, using the same gap rule as habits.
func RecordHeat(rec *learner.Record, now time.Time) {
	today := learner.DateOf(now)
	if newest, ok := rec.Heatmap.Newest(); ok && newest.Date == today {
		rec.Heatmap.UpdateNewest(func(d *learner.HeatDay) { d.Reviews++ })
	} else {
		rec.Heatmap.Append(learner.HeatDay{Date: today, Reviews: 1})
	}

	if rec.Meta.LastReviewDate != today {
		rec.Meta.ReviewStreak = learner.AdvanceStreak(rec.Meta.ReviewStreak, rec.Meta.LastReviewDate, now)
		rec.Meta.LastReviewDate = today
	}
}

func clampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > 5 {
		return 5
	}
	return q
}

func clampEase(ef float64) float64 {
	if ef < EaseMin {
		return EaseMin
	}
	if ef > EaseMax {
		return EaseMax
	}
	return ef
}
