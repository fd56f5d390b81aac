package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/review"
	"github.com/okrav/glossa/internal/store"
)

func newTestModel(t *testing.T, words map[string]string) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "glossa.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	ctx := context.Background()
	for word, translation := range words {
		if _, err := st.UpsertWordIfAbsent(ctx, word, "German", translation, time.Now()); err != nil {
			t.Fatalf("insert %q: %v", word, err)
		}
	}
	cfg := model.ReviewConfig{Lang: "German", Limit: review.DefaultLimit}
	session := review.NewSession(st, cfg)
	if err := session.Load(ctx); err != nil {
		t.Fatalf("load session: %v", err)
	}
	return NewModel(cfg, st, session, model.LevelB1, len(words), "")
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, map[string]string{"Brot": "bread", "Haus": "house"})
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"German · B1", "Due 2", "Left 2", "space reveal"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	m.session.Reveal()
	out = m.renderFooter()
	if !containsAll(out, []string{"1 forgot", "2 hard", "3 easy"}) {
		t.Fatalf("revealed footer missing judgment hints: %s", out)
	}
}

func TestRenderCardRevealsTranslation(t *testing.T) {
	m := newTestModel(t, map[string]string{"Brot": "bread"})
	hidden := m.renderCard()
	if !strings.Contains(hidden, "Brot") {
		t.Fatalf("card missing word: %s", hidden)
	}
	if strings.Contains(hidden, "bread") {
		t.Fatalf("translation shown before reveal: %s", hidden)
	}
	m.session.Reveal()
	revealed := m.renderCard()
	if !strings.Contains(revealed, "bread") {
		t.Fatalf("translation missing after reveal: %s", revealed)
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		proficiency int
		want        string
	}{
		{-1, "☆☆☆☆☆"},
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{9, "★★★★★"},
	}
	for _, tt := range tests {
		if got := stars(tt.proficiency); got != tt.want {
			t.Errorf("stars(%d) = %q, want %q", tt.proficiency, got, tt.want)
		}
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
