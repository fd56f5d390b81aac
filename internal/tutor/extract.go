package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okrav/glossa/internal/model"
)

// ExtractVocab asks the model to propose key vocabulary pairs for a
// lesson text. The response is untrusted: malformed entries are dropped,
// and an unparseable payload yields an error the caller can downgrade to
// "no new words".
func (c *Client) ExtractVocab(ctx context.Context, lang, text string) ([]model.Candidate, error) {
	prompt := buildExtractPrompt(lang, text)
	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("vocab extraction: %w", err)
	}
	return parseCandidates(raw)
}

func buildExtractPrompt(lang, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this text. Identify 3-5 key vocabulary words specifically for the %s language.\n", lang)
	sb.WriteString("Ignore the English explanations. Output ONLY a raw JSON list.\n")
	sb.WriteString(`Format: [{"word": "ForeignWord", "trans": "EnglishTranslation"}, ...]` + "\n")
	sb.WriteString("Text: ")
	sb.WriteString(text)
	return sb.String()
}

// parseCandidates strips markdown fences and decodes the candidate list,
// skipping entries without both fields.
func parseCandidates(raw string) ([]model.Candidate, error) {
	cleaned := stripFences(raw)
	var decoded []model.Candidate
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("parse candidates: %w", err)
	}
	out := make([]model.Candidate, 0, len(decoded))
	for _, c := range decoded {
		if strings.TrimSpace(c.Word) == "" || strings.TrimSpace(c.Translation) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	return s
}
