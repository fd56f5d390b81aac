package tutor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okrav/glossa/internal/model"
)

// ChatTurn carries one user message plus the study context that shapes
// the reply.
type ChatTurn struct {
	Language string
	Level    model.Level
	Scenario string
	Input    string
}

// Conversation scenarios mapped to the role the tutor plays.
var scenarioRoles = map[string]string{
	"chat":       "Tutor",
	"cafe":       "Barista",
	"customs":    "Customs Officer",
	"friend":     "Student",
	"translator": "Translator",
}

// Scenarios lists the known scenario names sorted for display.
func Scenarios() []string {
	names := make([]string, 0, len(scenarioRoles))
	for name := range scenarioRoles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownScenario reports whether name is a valid scenario.
func KnownScenario(name string) bool {
	_, ok := scenarioRoles[name]
	return ok
}

// Reply produces one tutor response for the turn.
func (c *Client) Reply(ctx context.Context, turn ChatTurn) (string, error) {
	prompt := buildChatPrompt(turn)
	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func buildChatPrompt(turn ChatTurn) string {
	var sb strings.Builder
	if turn.Scenario == "translator" {
		fmt.Fprintf(&sb, "Act as an expert language coach. Target: %s (%s). Input: %q\n", turn.Language, turn.Level, turn.Input)
		sb.WriteString("Task: Translate to natural ")
		sb.WriteString(turn.Language)
		sb.WriteString(", explain why, give alternatives.\n")
		sb.WriteString("Output sections: Translation, Literal English, Analysis, Alternatives, Example.\n")
		return sb.String()
	}
	role := scenarioRoles[turn.Scenario]
	if role == "" {
		role = scenarioRoles["chat"]
	}
	fmt.Fprintf(&sb, "Act as %s. Lang: %s (%s). User: %q\n", role, turn.Language, turn.Level, turn.Input)
	sb.WriteString("Reply naturally. Structure:\n")
	fmt.Fprintf(&sb, "1. Reply in %s.\n", turn.Language)
	sb.WriteString("2. \"Translation: \" English meaning.\n")
	sb.WriteString("3. Corrections in (parentheses).\n")
	return sb.String()
}
