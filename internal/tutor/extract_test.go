package tutor

import (
	"strings"
	"testing"
)

func TestParseCandidatesPlainJSON(t *testing.T) {
	raw := `[{"word": "Hund", "trans": "dog"}, {"word": "Katze", "trans": "cat"}]`
	got, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Word != "Hund" || got[0].Translation != "dog" {
		t.Fatalf("unexpected first candidate: %+v", got[0])
	}
}

func TestParseCandidatesFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"word\": \"Brot\", \"trans\": \"bread\"}]\n```\n"
	got, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Word != "Brot" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestParseCandidatesBareFence(t *testing.T) {
	raw := "```\n[{\"word\": \"Wasser\", \"trans\": \"water\"}]\n```"
	got, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Word != "Wasser" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestParseCandidatesSkipsMalformedEntries(t *testing.T) {
	raw := `[{"word": "Haus", "trans": "house"}, {"word": ""}, {"trans": "orphan"}]`
	got, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Word != "Haus" {
		t.Fatalf("expected only the well-formed entry, got %+v", got)
	}
}

func TestParseCandidatesRejectsGarbage(t *testing.T) {
	if _, err := parseCandidates("Sorry, I cannot help with that."); err == nil {
		t.Fatalf("expected error for non-JSON payload")
	}
}

func TestBuildChatPromptScenarios(t *testing.T) {
	translator := buildChatPrompt(ChatTurn{Language: "German", Level: "B1", Scenario: "translator", Input: "hello"})
	if !strings.Contains(translator, "language coach") {
		t.Fatalf("translator prompt missing coach framing: %q", translator)
	}
	cafe := buildChatPrompt(ChatTurn{Language: "Spanish", Level: "A2", Scenario: "cafe", Input: "un cafe"})
	if !strings.Contains(cafe, "Act as Barista") {
		t.Fatalf("cafe prompt missing role: %q", cafe)
	}
	unknown := buildChatPrompt(ChatTurn{Language: "French", Level: "A1", Scenario: "nope", Input: "salut"})
	if !strings.Contains(unknown, "Act as Tutor") {
		t.Fatalf("unknown scenario should fall back to tutor: %q", unknown)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	c, err := New("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model != DefaultModel {
		t.Fatalf("expected default model, got %q", c.model)
	}
}
