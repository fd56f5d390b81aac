// Package review drives the one-card-at-a-time flashcard flow.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/scheduler"
	"github.com/okrav/glossa/internal/store"
)

// DefaultLimit bounds the in-memory review queue.
const DefaultLimit = 10

// Errors returned for calls outside the card state machine.
var (
	ErrNoCard      = errors.New("no card in the review queue")
	ErrNotRevealed = errors.New("card has not been revealed")
)

// Session holds the in-memory queue for one review sitting. It owns the
// queue and reveal flag; all durable state lives in the store.
type Session struct {
	cfg   model.ReviewConfig
	store *store.Store
	now   func() time.Time

	id        string
	startedAt time.Time
	queue     []model.VocabItem
	revealed  bool
	practice  bool

	forgot int
	hard   int
	easy   int
}

// Result reports the outcome of a single judgment.
type Result struct {
	Item           model.VocabItem
	NewProficiency int
	NextReview     time.Time
}

// NewSession creates an empty session for a language.
func NewSession(st *store.Store, cfg model.ReviewConfig) *Session {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Session{
		cfg:       cfg,
		store:     st,
		now:       time.Now,
		id:        uuid.NewString(),
		startedAt: time.Now(),
	}
}

// Load fills the queue with a randomized due set. A store failure
// degrades to an empty queue; the error is returned so the caller can
// show a notice instead of crashing the interactive flow.
func (s *Session) Load(ctx context.Context) error {
	s.queue = nil
	s.revealed = false
	s.practice = false
	items, err := s.store.QueryDue(ctx, s.cfg.Lang, s.now(), s.cfg.Limit)
	if err != nil {
		return err
	}
	s.queue = items
	return nil
}

// LoadSample fills the queue with a random sample regardless of due
// dates, for supplementary practice when nothing is due.
func (s *Session) LoadSample(ctx context.Context) error {
	s.queue = nil
	s.revealed = false
	items, err := s.store.SampleAny(ctx, s.cfg.Lang, s.cfg.Limit)
	if err != nil {
		return err
	}
	s.queue = items
	s.practice = true
	return nil
}

// Current returns the front card, if any.
func (s *Session) Current() (model.VocabItem, bool) {
	if len(s.queue) == 0 {
		return model.VocabItem{}, false
	}
	return s.queue[0], true
}

// Reveal shows the answer side of the current card. No store mutation.
func (s *Session) Reveal() {
	if len(s.queue) > 0 {
		s.revealed = true
	}
}

// Revealed reports whether the current card shows its answer.
func (s *Session) Revealed() bool {
	return s.revealed
}

// Empty reports whether the queue is exhausted.
func (s *Session) Empty() bool {
	return len(s.queue) == 0
}

// Remaining returns the number of cards left in the queue.
func (s *Session) Remaining() int {
	return len(s.queue)
}

// Practice reports whether the queue was loaded via the sample fallback.
func (s *Session) Practice() bool {
	return s.practice
}

// Reviewed returns the number of judgments made so far.
func (s *Session) Reviewed() int {
	return s.forgot + s.hard + s.easy
}

// Judge applies the learner's outcome to the current card: the scheduler
// computes the new proficiency and due date, the store persists them, and
// the queue advances with the next card hidden.
func (s *Session) Judge(ctx context.Context, outcome model.Outcome) (Result, error) {
	item, ok := s.Current()
	if !ok {
		return Result{}, ErrNoCard
	}
	if !s.revealed {
		return Result{}, ErrNotRevealed
	}

	newProf, dayOffset, err := scheduler.Next(item.Proficiency, outcome)
	if err != nil {
		return Result{}, err
	}
	now := s.now()
	nextReview := scheduler.NextReviewDate(now, dayOffset)
	if err := s.store.UpdateProgress(ctx, item.Word, item.Language, newProf, nextReview, now); err != nil {
		return Result{}, err
	}
	if err := s.store.AppendReviewLog(ctx, model.ReviewEvent{
		SessionID:      s.id,
		Word:           item.Word,
		Language:       item.Language,
		Outcome:        outcome,
		OldProficiency: item.Proficiency,
		NewProficiency: newProf,
		ReviewedAt:     now,
	}); err != nil {
		return Result{}, err
	}

	switch outcome {
	case model.OutcomeForgot:
		s.forgot++
	case model.OutcomeHard:
		s.hard++
	case model.OutcomeEasy:
		s.easy++
	}
	s.queue = s.queue[1:]
	s.revealed = false
	return Result{Item: item, NewProficiency: newProf, NextReview: nextReview}, nil
}

// Finish persists the session summary. Sessions with no judgments leave
// no trace.
func (s *Session) Finish(ctx context.Context) error {
	if s.Reviewed() == 0 {
		return nil
	}
	return s.store.InsertReviewSession(ctx, model.SessionStats{
		ID:        s.id,
		Lang:      s.cfg.Lang,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Forgot:    s.forgot,
		Hard:      s.hard,
		Easy:      s.easy,
		Practice:  s.practice,
	})
}
