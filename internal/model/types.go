// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Languages supported for study.
var Languages = []string{"German", "Spanish", "English", "French"}

// KnownLanguage reports whether lang is one of the supported languages.
func KnownLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Level is a CEFR proficiency level.
type Level string

// CEFR levels in ascending order.
const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists all CEFR levels in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// DefaultLevel is assumed for a language that has never been assessed.
const DefaultLevel = LevelA1

// ParseLevel validates a level string (case-insensitive).
func ParseLevel(s string) (Level, error) {
	candidate := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range Levels {
		if l == candidate {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q (valid: A1, A2, B1, B2, C1, C2)", s)
}

// Outcome is the learner's judgment after seeing a card's answer.
type Outcome string

// Review outcomes. The set is closed; the scheduler rejects anything else.
const (
	OutcomeForgot Outcome = "forgot"
	OutcomeHard   Outcome = "hard"
	OutcomeEasy   Outcome = "easy"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeForgot, OutcomeHard, OutcomeEasy:
		return true
	}
	return false
}

// VocabItem is a learned word with its review scheduling state.
// (Word, Language) is the unique key.
type VocabItem struct {
	Word         string
	Language     string
	Translation  string
	Proficiency  int
	LastReviewed time.Time
	// NextReview is nil when the item has never been scheduled,
	// which counts as due immediately.
	NextReview *time.Time
}

// Due reports whether the item needs review on the given day.
func (v VocabItem) Due(asOf time.Time) bool {
	if v.NextReview == nil {
		return true
	}
	return !DateOnly(*v.NextReview).After(DateOnly(asOf))
}

// LevelRecord tracks the assessed proficiency level for one language.
type LevelRecord struct {
	Language     string
	Level        Level
	LastAssessed time.Time
}

// Candidate is an untrusted vocabulary pair proposed by extraction or import.
type Candidate struct {
	Word        string `json:"word"`
	Translation string `json:"trans"`
}

// ReviewConfig defines flashcard session settings.
type ReviewConfig struct {
	Lang  string
	Limit int
}

// ChatConfig defines chat session settings.
type ChatConfig struct {
	Lang     string
	Scenario string
	Model    string
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed review session.
type SessionStats struct {
	ID        string
	Lang      string
	StartedAt time.Time
	EndedAt   time.Time
	Forgot    int
	Hard      int
	Easy      int
	Practice  bool
}

// Reviewed returns the total number of judgments in the session.
func (s SessionStats) Reviewed() int {
	return s.Forgot + s.Hard + s.Easy
}

// ReviewEvent records a single judgment for the review log.
type ReviewEvent struct {
	SessionID      string
	Word           string
	Language       string
	Outcome        Outcome
	OldProficiency int
	NewProficiency int
	ReviewedAt     time.Time
}

// SessionAggregate summarizes a review session for reporting.
type SessionAggregate struct {
	SessionID string
	EndedAt   time.Time
	Forgot    int
	Hard      int
	Easy      int
	Practice  bool
}

// Reviewed returns the total judgment count for the session.
func (s SessionAggregate) Reviewed() int {
	return s.Forgot + s.Hard + s.Easy
}

// WordAggregate aggregates review outcomes per word across sessions.
type WordAggregate struct {
	Word        string
	Translation string
	Proficiency int
	Forgot      int
	Hard        int
	Easy        int
}

// Reviews returns the total judgment count for the word.
func (w WordAggregate) Reviews() int {
	return w.Forgot + w.Hard + w.Easy
}

// DateOnly truncates t to its calendar date in local time.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
