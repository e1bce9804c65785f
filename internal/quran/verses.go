// Package quran is the verse range service: it expands surah/ayah ranges
// into verse keys and validates key lists. All functions are pure and
// side-effect free; callers run them before any plan mutation.
package quran

import (
	"fmt"
	"strconv"
	"strings"
)

// Key formats a verse key as "surah:ayah".
func Key(surah, ayah int) string {
	return fmt.Sprintf("%d:%d", surah, ayah)
}

// ParseKey splits a "surah:ayah" key. It reports malformed keys, but does
// not check that the verse exists; use Exists for that.
func ParseKey(key string) (surah, ayah int, err error) {
	parts := strings.Split(key, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	surah, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	ayah, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	return surah, ayah, nil
}

// Exists reports whether the verse exists in the mushaf.
func Exists(surah, ayah int) bool {
	return ayah >= 1 && ayah <= AyahCount(surah)
}

// ExpandRange expands surah:from..to into an ordered key list. The range
// must lie entirely inside the surah and from must not exceed to.
func ExpandRange(surah, from, to int) ([]string, error) {
	count := AyahCount(surah)
	if count == 0 {
		return nil, fmt.Errorf("surah %d out of range", surah)
	}
	if from < 1 || to > count || from > to {
		return nil, fmt.Errorf("ayah range %d-%d out of range for surah %d (1-%d)", from, to, surah, count)
	}
	keys := make([]string, 0, to-from+1)
	for a := from; a <= to; a++ {
		keys = append(keys, Key(surah, a))
	}
	return keys, nil
}

// ValidateKeys partitions keys into valid verse keys and issues. Issues
// carry the offending key verbatim so callers can surface them.
func ValidateKeys(keys []string) (valid []string, issues []string) {
	for _, k := range keys {
		surah, ayah, err := ParseKey(k)
		if err != nil || !Exists(surah, ayah) {
			issues = append(issues, k)
			continue
		}
		valid = append(valid, k)
	}
	return valid, issues
}
