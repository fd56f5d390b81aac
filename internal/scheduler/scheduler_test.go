package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/okrav/glossa/internal/model"
)

func TestNextForgot(t *testing.T) {
	for prof := 0; prof <= 5; prof++ {
		newProf, offset, err := Next(prof, model.OutcomeForgot)
		if err != nil {
			t.Fatalf("unexpected error for prof=%d: %v", prof, err)
		}
		want := prof - 1
		if want < 0 {
			want = 0
		}
		if newProf != want {
			t.Fatalf("prof=%d: expected new proficiency %d, got %d", prof, want, newProf)
		}
		if offset != 0 {
			t.Fatalf("prof=%d: expected offset 0, got %d", prof, offset)
		}
	}
}

func TestNextHard(t *testing.T) {
	for prof := 0; prof <= 5; prof++ {
		newProf, offset, err := Next(prof, model.OutcomeHard)
		if err != nil {
			t.Fatalf("unexpected error for prof=%d: %v", prof, err)
		}
		if newProf != prof {
			t.Fatalf("prof=%d: expected proficiency unchanged, got %d", prof, newProf)
		}
		if offset != 2 {
			t.Fatalf("prof=%d: expected offset 2, got %d", prof, offset)
		}
	}
}

func TestNextEasy(t *testing.T) {
	// Offset uses the post-increment proficiency: 5, 7, 9, 11, 13, 13.
	wantOffsets := []int{5, 7, 9, 11, 13, 13}
	for prof := 0; prof <= 5; prof++ {
		newProf, offset, err := Next(prof, model.OutcomeEasy)
		if err != nil {
			t.Fatalf("unexpected error for prof=%d: %v", prof, err)
		}
		want := prof + 1
		if want > 5 {
			want = 5
		}
		if newProf != want {
			t.Fatalf("prof=%d: expected new proficiency %d, got %d", prof, want, newProf)
		}
		if offset != wantOffsets[prof] {
			t.Fatalf("prof=%d: expected offset %d, got %d", prof, wantOffsets[prof], offset)
		}
	}
}

func TestNextClampsInput(t *testing.T) {
	newProf, offset, err := Next(42, model.OutcomeEasy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newProf != 5 {
		t.Fatalf("expected proficiency clamped to 5, got %d", newProf)
	}
	if offset != 13 {
		t.Fatalf("expected offset 13, got %d", offset)
	}
	newProf, offset, err = Next(-3, model.OutcomeForgot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newProf != 0 || offset != 0 {
		t.Fatalf("expected (0, 0), got (%d, %d)", newProf, offset)
	}
}

func TestNextUnknownOutcome(t *testing.T) {
	_, _, err := Next(2, model.Outcome("perfect"))
	if !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}

func TestNextReviewDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)
	next := NextReviewDate(now, 9)
	want := time.Date(2026, 3, 23, 0, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
	if got := NextReviewDate(now, -1); !got.Equal(model.DateOnly(now)) {
		t.Fatalf("negative offset should pin to today, got %v", got)
	}
}
