package learner

import (
	"errors"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("title", "must not be empty")
	if got, want := err.Error(), "validation: title: must not be empty"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("should unwrap to ErrValidation")
	}

	keyed := NewVerseKeyError([]string{"115:1", "2:999"})
	if got, want := keyed.Error(), "validation: verseKeys: invalid verse keys (115:1, 2:999)"; got != want {
		t.Errorf("keyed message = %q, want %q", got, want)
	}
}
