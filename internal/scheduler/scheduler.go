// Package scheduler implements the spaced-repetition interval policy.
package scheduler

import (
	"fmt"
	"time"

	"github.com/okrav/glossa/internal/model"
)

// Proficiency bounds for any vocabulary item.
const (
	MinProficiency = 0
	MaxProficiency = 5
)

// Interval constants in days.
const (
	hardInterval     = 2
	easyBaseInterval = 3
	easyStep         = 2
)

// ErrUnknownOutcome signals an outcome outside the closed enum.
// The outcome set is caller-controlled, so this is a programming error.
var ErrUnknownOutcome = fmt.Errorf("unknown review outcome")

// Next maps a review outcome and the current proficiency to the new
// proficiency and the day offset until the next review.
//
// Forgot drops proficiency by one and makes the item due again immediately.
// Hard keeps proficiency and schedules a fixed two-day retry.
// Easy raises proficiency by one and schedules 3 + newProficiency*2 days out;
// the offset is computed from the post-increment proficiency, so the Easy
// ladder runs 5, 7, 9, 11, 13, 13 days as proficiency climbs from 0.
func Next(proficiency int, outcome model.Outcome) (newProficiency, dayOffset int, err error) {
	proficiency = Clamp(proficiency)
	switch outcome {
	case model.OutcomeForgot:
		newProficiency = proficiency - 1
		if newProficiency < MinProficiency {
			newProficiency = MinProficiency
		}
		return newProficiency, 0, nil
	case model.OutcomeHard:
		return proficiency, hardInterval, nil
	case model.OutcomeEasy:
		newProficiency = proficiency + 1
		if newProficiency > MaxProficiency {
			newProficiency = MaxProficiency
		}
		return newProficiency, easyBaseInterval + newProficiency*easyStep, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
}

// Clamp bounds a proficiency value to the valid range.
func Clamp(proficiency int) int {
	if proficiency < MinProficiency {
		return MinProficiency
	}
	if proficiency > MaxProficiency {
		return MaxProficiency
	}
	return proficiency
}

// NextReviewDate resolves a day offset against a reference time.
// Offsets are never negative, so the result never falls before now.
func NextReviewDate(now time.Time, dayOffset int) time.Time {
	if dayOffset < 0 {
		dayOffset = 0
	}
	return model.DateOnly(now).AddDate(0, 0, dayOffset)
}
