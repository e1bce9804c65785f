package scorer

import "strings"

// scoreTranscript derives the three scores from a token-level comparison
// of the transcript against the expected text.
//
// Accuracy is longest-common-subsequence coverage of the expected
// tokens. Tajweed cannot be judged from text alone, so it follows
// accuracy with a penalty for insertions (extra tokens usually mean
// hesitation or repetition). Fluency penalizes length mismatch.
func scoreTranscript(transcript, expected string) Result {
	got := tokenize(transcript)
	want := tokenize(expected)
	if len(want) == 0 {
		return Result{Transcript: transcript}
	}

	matched := lcs(got, want)
	accuracy := 100 * matched / len(want)

	insertions := len(got) - matched
	if insertions < 0 {
		insertions = 0
	}
	tajweed := accuracy - 5*insertions
	if tajweed < 0 {
		tajweed = 0
	}

	diff := len(got) - len(want)
	if diff < 0 {
		diff = -diff
	}
	fluency := 100 - 100*diff/len(want)
	if fluency < 0 {
		fluency = 0
	}

	return Result{
		Accuracy:     accuracy,
		TajweedScore: tajweed,
		FluencyScore: fluency,
		Transcript:   transcript,
	}
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(s)))
}

// lcs returns the longest-common-subsequence length of the two token
// slices.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
