package review

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "glossa.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}

func seedWord(t *testing.T, st *store.Store, word, translation string, proficiency int) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	if _, err := st.UpsertWordIfAbsent(ctx, word, "German", translation, now); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if proficiency != 0 {
		if err := st.UpdateProgress(ctx, word, "German", proficiency, now, now); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}
}

func findWord(t *testing.T, st *store.Store, word string) model.VocabItem {
	t.Helper()
	items, err := st.ListWords(context.Background(), "German")
	if err != nil {
		t.Fatalf("list words failed: %v", err)
	}
	for _, item := range items {
		if item.Word == word {
			return item
		}
	}
	t.Fatalf("word %q not found", word)
	return model.VocabItem{}
}

func TestJudgeEasyReschedules(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	seedWord(t, st, "Brot", "bread", 2)

	s := NewSession(st, model.ReviewConfig{Lang: "German"})
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Remaining() != 1 {
		t.Fatalf("expected 1 card, got %d", s.Remaining())
	}
	s.Reveal()
	res, err := s.Judge(ctx, model.OutcomeEasy)
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if res.NewProficiency != 3 {
		t.Fatalf("expected proficiency 3, got %d", res.NewProficiency)
	}
	wantNext := model.DateOnly(time.Now()).AddDate(0, 0, 9)
	if !res.NextReview.Equal(wantNext) {
		t.Fatalf("expected next review %v, got %v", wantNext, res.NextReview)
	}

	stored := findWord(t, st, "Brot")
	if stored.Proficiency != 3 {
		t.Fatalf("expected stored proficiency 3, got %d", stored.Proficiency)
	}
	if stored.NextReview == nil || !stored.NextReview.Equal(wantNext) {
		t.Fatalf("expected stored next review %v, got %v", wantNext, stored.NextReview)
	}
}

func TestJudgeForgotClampsAndStaysDue(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	seedWord(t, st, "Wasser", "water", 0)

	s := NewSession(st, model.ReviewConfig{Lang: "German"})
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	s.Reveal()
	res, err := s.Judge(ctx, model.OutcomeForgot)
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if res.NewProficiency != 0 {
		t.Fatalf("expected proficiency clamped to 0, got %d", res.NewProficiency)
	}
	if !res.NextReview.Equal(model.DateOnly(time.Now())) {
		t.Fatalf("expected due again today, got %v", res.NextReview)
	}
	if !findWord(t, st, "Wasser").Due(time.Now()) {
		t.Fatalf("expected item to remain due after forgot")
	}
}

func TestSessionExhaustionAndSampleFallback(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, w := range []string{"eins", "zwei", "drei"} {
		seedWord(t, st, w, "n", 0)
	}

	s := NewSession(st, model.ReviewConfig{Lang: "German"})
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for !s.Empty() {
		s.Reveal()
		if _, err := s.Judge(ctx, model.OutcomeEasy); err != nil {
			t.Fatalf("judge failed: %v", err)
		}
	}
	if s.Reviewed() != 3 {
		t.Fatalf("expected 3 judgments, got %d", s.Reviewed())
	}

	// Everything is scheduled into the future now, so a reload finds
	// nothing due and the sample fallback must still produce cards.
	if err := s.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !s.Empty() {
		t.Fatalf("expected empty queue after rescheduling, got %d", s.Remaining())
	}
	if err := s.LoadSample(ctx); err != nil {
		t.Fatalf("sample load failed: %v", err)
	}
	if s.Remaining() != 3 {
		t.Fatalf("expected 3 practice cards, got %d", s.Remaining())
	}
	if !s.Practice() {
		t.Fatalf("expected practice mode after sample load")
	}

	if err := s.Finish(ctx); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	sessions, err := st.ListReviewSessions(ctx, model.StatsConfig{Lang: "German"})
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 recorded session, got %d", len(sessions))
	}
	if sessions[0].Easy != 3 {
		t.Fatalf("expected 3 easy judgments recorded, got %d", sessions[0].Easy)
	}
}

func TestJudgeRequiresRevealedCard(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	s := NewSession(st, model.ReviewConfig{Lang: "German"})
	if _, err := s.Judge(ctx, model.OutcomeEasy); !errors.Is(err, ErrNoCard) {
		t.Fatalf("expected ErrNoCard, got %v", err)
	}

	seedWord(t, st, "Haus", "house", 0)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := s.Judge(ctx, model.OutcomeEasy); !errors.Is(err, ErrNotRevealed) {
		t.Fatalf("expected ErrNotRevealed, got %v", err)
	}
}

func TestFinishWithoutJudgmentsLeavesNoTrace(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	s := NewSession(st, model.ReviewConfig{Lang: "German"})
	if err := s.Finish(ctx); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	sessions, err := st.ListReviewSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no recorded sessions, got %d", len(sessions))
	}
}
