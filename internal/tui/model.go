// Package tui provides the Bubble Tea flashcard interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/review"
	"github.com/okrav/glossa/internal/store"
)

var (
	wordStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	starStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle        = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	practiceCardStyle = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	doneStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea flashcard UI.
type Model struct {
	cfg     model.ReviewConfig
	store   *store.Store
	session *review.Session
	level   model.Level

	width  int
	height int

	dueCount int
	notice   string
}

// NewModel constructs a flashcard TUI model with a preloaded session.
func NewModel(cfg model.ReviewConfig, st *store.Store, session *review.Session, level model.Level, dueCount int, notice string) *Model {
	return &Model{
		cfg:      cfg,
		store:    st,
		session:  session,
		level:    level,
		dueCount: dueCount,
		notice:   notice,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC || msg.String() == "q":
			m.finish()
			return m, tea.Quit
		case msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace:
			m.session.Reveal()
			return m, nil
		case msg.String() == "r":
			m.reload()
			return m, nil
		case msg.String() == "p":
			m.loadPractice()
			return m, nil
		case msg.String() == "1" || msg.String() == "f":
			m.judge(model.OutcomeForgot)
			return m, nil
		case msg.String() == "2" || msg.String() == "h":
			m.judge(model.OutcomeHard)
			return m, nil
		case msg.String() == "3" || msg.String() == "e":
			m.judge(model.OutcomeEasy)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderCard()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) renderCard() string {
	item, ok := m.session.Current()
	if !ok {
		if m.session.Reviewed() > 0 {
			return doneStyle.Render("All caught up!")
		}
		return doneStyle.Render("Nothing due right now.")
	}

	cardWidth := 40
	if m.width > 0 && cardWidth > m.width-8 {
		cardWidth = m.width - 8
	}
	if cardWidth < 10 {
		cardWidth = 10
	}

	lines := []string{
		wordStyle.Render(wrapToWidth(item.Word, cardWidth)),
		starStyle.Render(stars(item.Proficiency)),
	}
	if m.session.Revealed() {
		lines = append(lines, "", translationStyle.Render(wrapToWidth(item.Translation, cardWidth)))
	}
	style := cardStyle
	if m.session.Practice() {
		style = practiceCardStyle
	}
	return style.Width(cardWidth + 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%s · %s", m.cfg.Lang, m.level),
		fmt.Sprintf("Due %d", m.dueCount),
	}
	if !m.session.Empty() {
		segments = append(segments, fmt.Sprintf("Left %d", m.session.Remaining()))
	}
	if m.session.Practice() {
		segments = append(segments, "practice")
	}
	segments = append(segments, m.keyHints())
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.notice != "" {
		footer += "\n" + noticeStyle.Render(m.notice)
	}
	return footer
}

func (m *Model) keyHints() string {
	if m.session.Empty() {
		return "r reload · p practice · q quit"
	}
	if m.session.Revealed() {
		return "1 forgot · 2 hard · 3 easy · q quit"
	}
	return "space reveal · q quit"
}

func (m *Model) judge(outcome model.Outcome) {
	if !m.session.Revealed() {
		return
	}
	ctx := context.Background()
	if _, err := m.session.Judge(ctx, outcome); err != nil {
		m.notice = fmt.Sprintf("failed to save review: %v", err)
		return
	}
	m.notice = ""
	m.refreshDueCount()
}

func (m *Model) reload() {
	ctx := context.Background()
	if err := m.session.Load(ctx); err != nil {
		// Degrade to an empty queue; the session already did.
		m.notice = fmt.Sprintf("failed to load due words: %v", err)
	} else {
		m.notice = ""
	}
	m.refreshDueCount()
}

func (m *Model) loadPractice() {
	if !m.session.Empty() {
		return
	}
	ctx := context.Background()
	if err := m.session.LoadSample(ctx); err != nil {
		m.notice = fmt.Sprintf("failed to load practice words: %v", err)
		return
	}
	m.notice = ""
	if m.session.Empty() {
		m.notice = "no words stored yet; chat or import to add some"
	}
}

func (m *Model) refreshDueCount() {
	count, err := m.store.CountDue(context.Background(), m.cfg.Lang, time.Now())
	if err != nil {
		// Keep the stale count; the metric is informational.
		return
	}
	m.dueCount = count
}

func (m *Model) finish() {
	if err := m.session.Finish(context.Background()); err != nil {
		logErrf("failed to save session summary: %v\n", err)
	}
}

func stars(proficiency int) string {
	if proficiency < 0 {
		proficiency = 0
	}
	if proficiency > 5 {
		proficiency = 5
	}
	return strings.Repeat("★", proficiency) + strings.Repeat("☆", 5-proficiency)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
