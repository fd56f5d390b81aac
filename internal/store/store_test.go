package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okrav/glossa/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "glossa.db"))
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

func TestUpsertWordIfAbsentIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	today := time.Now()

	inserted, err := st.UpsertWordIfAbsent(ctx, "Hund", "German", "dog", today)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first upsert to insert")
	}

	// Simulate accumulated progress, then re-extract the same word.
	next := today.AddDate(0, 0, 9)
	if err := st.UpdateProgress(ctx, "Hund", "German", 3, next, today); err != nil {
		t.Fatalf("update progress failed: %v", err)
	}
	inserted, err = st.UpsertWordIfAbsent(ctx, "Hund", "German", "hound", today)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if inserted {
		t.Fatalf("expected second upsert to no-op")
	}

	items, err := st.ListWords(ctx, "German")
	if err != nil {
		t.Fatalf("list words failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 item, got %d", len(items))
	}
	if items[0].Translation != "dog" {
		t.Fatalf("expected original translation preserved, got %q", items[0].Translation)
	}
	if items[0].Proficiency != 3 {
		t.Fatalf("expected proficiency 3 preserved, got %d", items[0].Proficiency)
	}
}

func TestUpdateProgressMissingKeyNoOps(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.UpdateProgress(ctx, "ghost", "German", 2, time.Now(), time.Now()); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestQueryDueFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	today := time.Now()

	seed := []struct {
		word   string
		offset int  // days relative to today
		due    bool // expected in due set
	}{
		{"gestern", -1, true},
		{"heute", 0, true},
		{"morgen", 1, false},
	}
	for _, s := range seed {
		if _, err := st.UpsertWordIfAbsent(ctx, s.word, "German", "x", today); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if err := st.UpdateProgress(ctx, s.word, "German", 1, today.AddDate(0, 0, s.offset), today); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}
	// Unscheduled item (next_review_date is null) is due as well.
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO vocab (word, language, translation, proficiency, last_reviewed)
		 VALUES ('neu', 'German', 'new', 0, ?)`, today.Format(dateLayout)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	// Another language must not leak into the due set.
	if _, err := st.UpsertWordIfAbsent(ctx, "perro", "Spanish", "dog", today); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	due, err := st.QueryDue(ctx, "German", today, 10)
	if err != nil {
		t.Fatalf("query due failed: %v", err)
	}
	got := map[string]bool{}
	for _, item := range due {
		got[item.Word] = true
	}
	for _, s := range seed {
		if got[s.word] != s.due {
			t.Fatalf("word %q: expected due=%v, got %v", s.word, s.due, got[s.word])
		}
	}
	if !got["neu"] {
		t.Fatalf("expected unscheduled item to be due")
	}
	if got["perro"] {
		t.Fatalf("expected other language to be excluded")
	}

	count, err := st.CountDue(ctx, "German", today)
	if err != nil {
		t.Fatalf("count due failed: %v", err)
	}
	if count != len(due) {
		t.Fatalf("count due %d disagrees with query due %d", count, len(due))
	}
}

func TestQueryDueRespectsLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	today := time.Now()
	words := []string{"eins", "zwei", "drei", "vier", "fuenf"}
	for _, w := range words {
		if _, err := st.UpsertWordIfAbsent(ctx, w, "German", "n", today); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}
	due, err := st.QueryDue(ctx, "German", today, 3)
	if err != nil {
		t.Fatalf("query due failed: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("expected 3 items, got %d", len(due))
	}
}

func TestSampleAnyIgnoresDueDates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	today := time.Now()
	for _, w := range []string{"Brot", "Wasser"} {
		if _, err := st.UpsertWordIfAbsent(ctx, w, "German", "x", today); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if err := st.UpdateProgress(ctx, w, "German", 2, today.AddDate(0, 0, 30), today); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	due, err := st.QueryDue(ctx, "German", today, 10)
	if err != nil {
		t.Fatalf("query due failed: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due, got %d", len(due))
	}

	sample, err := st.SampleAny(ctx, "German", 10)
	if err != nil {
		t.Fatalf("sample any failed: %v", err)
	}
	if len(sample) != 2 {
		t.Fatalf("expected 2 sampled items, got %d", len(sample))
	}
}

func TestSaveCandidatesSkipsMalformed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	saved, err := st.SaveCandidates(ctx, "German", []model.Candidate{
		{Word: "Haus", Translation: "house"},
		{Word: "", Translation: "nothing"},
		{Word: "Baum", Translation: "  "},
		{Word: "Hund", Translation: "dog"},
	}, time.Now())
	if err != nil {
		t.Fatalf("save candidates failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved words, got %v", saved)
	}
	items, err := st.ListWords(ctx, "German")
	if err != nil {
		t.Fatalf("list words failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(items))
	}
}

func TestLevelDefaultsToA1(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	level, err := st.GetLevel(ctx, "French")
	if err != nil {
		t.Fatalf("get level failed: %v", err)
	}
	if level != model.LevelA1 {
		t.Fatalf("expected default A1, got %s", level)
	}

	if err := st.SetLevel(ctx, "French", model.LevelB2, time.Now()); err != nil {
		t.Fatalf("set level failed: %v", err)
	}
	if err := st.SetLevel(ctx, "French", model.LevelB1, time.Now()); err != nil {
		t.Fatalf("second set level failed: %v", err)
	}
	level, err = st.GetLevel(ctx, "French")
	if err != nil {
		t.Fatalf("get level failed: %v", err)
	}
	if level != model.LevelB1 {
		t.Fatalf("expected B1 after update, got %s", level)
	}
}

func TestReviewHistoryAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := st.UpsertWordIfAbsent(ctx, "Brot", "German", "bread", now); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	events := []model.ReviewEvent{
		{SessionID: "s1", Word: "Brot", Language: "German", Outcome: model.OutcomeForgot, OldProficiency: 1, NewProficiency: 0, ReviewedAt: now},
		{SessionID: "s1", Word: "Brot", Language: "German", Outcome: model.OutcomeEasy, OldProficiency: 0, NewProficiency: 1, ReviewedAt: now},
	}
	for _, ev := range events {
		if err := st.AppendReviewLog(ctx, ev); err != nil {
			t.Fatalf("append review log failed: %v", err)
		}
	}
	if err := st.InsertReviewSession(ctx, model.SessionStats{
		ID: "s1", Lang: "German", StartedAt: now.Add(-time.Minute), EndedAt: now,
		Forgot: 1, Easy: 1,
	}); err != nil {
		t.Fatalf("insert session failed: %v", err)
	}

	sessions, err := st.ListReviewSessions(ctx, model.StatsConfig{Lang: "German"})
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Reviewed() != 2 {
		t.Fatalf("expected 2 reviews, got %d", sessions[0].Reviewed())
	}

	aggs, err := st.ListWordAggregates(ctx, "German")
	if err != nil {
		t.Fatalf("list word aggregates failed: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	if aggs[0].Forgot != 1 || aggs[0].Easy != 1 || aggs[0].Hard != 0 {
		t.Fatalf("unexpected outcome counts: %+v", aggs[0])
	}
}
