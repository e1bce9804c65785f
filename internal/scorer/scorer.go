// Package scorer turns a recorded recitation into scores. Scoring is
// external I/O and completes before any engine mutation is invoked; the
// engine only ever sees the plain result values.
package scorer

import (
	"context"
	"errors"
)

// Result is a scored recitation attempt.
type Result struct {
	Accuracy     int
	TajweedScore int
	FluencyScore int
	Transcript   string
}

// Request describes one attempt to score.
type Request struct {
	// AudioPath is the recording to transcribe. When Transcript is set
	// the transcription step is skipped.
	AudioPath    string
	Transcript   string
	ExpectedText string
}

// Scorer scores a recitation attempt against its expected text.
type Scorer interface {
	Score(ctx context.Context, req Request) (*Result, error)
}

// Transient failures, retryable by the retry decorator.
var (
	ErrUnavailable = errors.New("scorer unavailable")
	ErrRateLimited = errors.New("scorer rate limited")
)
