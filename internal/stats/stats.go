// Package stats contains review statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/okrav/glossa/internal/model"
)

const sparkChars = " .:-=+*#%@"

const terminalWidthBackup = 80

// Retention computes the share of reviews the learner recalled (Hard and
// Easy count as recalled; Forgot does not).
func Retention(forgot, hard, easy int) float64 {
	total := forgot + hard + easy
	if total == 0 {
		return 0
	}
	return float64(hard+easy) / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the stdout terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// StrugglingWords returns up to top words sorted by lowest retention,
// breaking ties by lower proficiency, then alphabetically. Words without
// any reviews are skipped.
func StrugglingWords(aggs []model.WordAggregate, top int) []model.WordAggregate {
	candidates := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Reviews() == 0 {
			continue
		}
		candidates = append(candidates, agg)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri := Retention(candidates[i].Forgot, candidates[i].Hard, candidates[i].Easy)
		rj := Retention(candidates[j].Forgot, candidates[j].Hard, candidates[j].Easy)
		if ri != rj {
			return ri < rj
		}
		if candidates[i].Proficiency != candidates[j].Proficiency {
			return candidates[i].Proficiency < candidates[j].Proficiency
		}
		return candidates[i].Word < candidates[j].Word
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

// ProficiencyHistogram counts words per proficiency bucket 0..5.
func ProficiencyHistogram(items []model.WordAggregate) [6]int {
	var buckets [6]int
	for _, item := range items {
		p := item.Proficiency
		if p < 0 {
			p = 0
		}
		if p > 5 {
			p = 5
		}
		buckets[p]++
	}
	return buckets
}

// RenderSummary prints a summary for review sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No review sessions found.")
		return err
	}
	var totalReviews, totalForgot, totalHard, totalEasy int
	for _, s := range sessions {
		totalReviews += s.Reviewed()
		totalForgot += s.Forgot
		totalHard += s.Hard
		totalEasy += s.Easy
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cards reviewed: %d\n", totalReviews); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Forgot / Hard / Easy: %d / %d / %d\n", totalForgot, totalHard, totalEasy); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Retention: %.1f%%\n", Retention(totalForgot, totalHard, totalEasy)*100); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWordTable prints the struggling-words table.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	rows := StrugglingWords(aggs, 0)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No reviewed words yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Hardest Words"); err != nil {
		return err
	}
	headers := []string{"Word", "Translation", "Prof", "Reviews", "Forgot", "Retention"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			r.Translation,
			fmt.Sprintf("%d", r.Proficiency),
			fmt.Sprintf("%d", r.Reviews()),
			fmt.Sprintf("%d", r.Forgot),
			fmt.Sprintf("%.1f%%", Retention(r.Forgot, r.Hard, r.Easy)*100),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a retention sparkline over sessions.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = Retention(s.Forgot, s.Hard, s.Easy) * 100
	}
	values = MovingAverage(values, window)
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if _, err := fmt.Fprintln(w, "Retention Trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "min=%.1f%% max=%.1f%%\n", minVal, maxVal); err != nil {
		return err
	}
	line := Sparkline(values)
	if width := TerminalWidth(); len(line) > width {
		line = line[len(line)-width:]
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
