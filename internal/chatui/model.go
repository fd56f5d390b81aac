// Package chatui provides the Bubble Tea conversation interface.
package chatui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/store"
	"github.com/okrav/glossa/internal/tutor"
)

const replyTimeout = 90 * time.Second

var (
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tutorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type line struct {
	speaker string
	text    string
}

type replyMsg struct {
	reply  string
	saved  []string
	notice string
	err    error
}

// Model implements the Bubble Tea chat UI.
type Model struct {
	cfg    model.ChatConfig
	store  *store.Store
	client *tutor.Client
	level  model.Level

	viewport viewport.Model
	input    textinput.Model

	lines   []line
	waiting bool
	errMsg  string

	width  int
	height int
}

// NewModel constructs a chat UI model.
func NewModel(cfg model.ChatConfig, st *store.Store, client *tutor.Client, level model.Level) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "say something"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return &Model{
		cfg:      cfg,
		store:    st,
		client:   client,
		level:    level,
		viewport: viewport.New(0, 0),
		input:    input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTranscript()
		return m, nil
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.renderTranscript()
			return m, nil
		}
		m.errMsg = ""
		m.lines = append(m.lines, line{speaker: "tutor", text: msg.reply})
		if len(msg.saved) > 0 {
			m.lines = append(m.lines, line{speaker: "saved", text: strings.Join(msg.saved, ", ")})
		}
		if msg.notice != "" {
			m.lines = append(m.lines, line{speaker: "notice", text: msg.notice})
		}
		m.renderTranscript()
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc:
			return m, tea.Quit
		case msg.Type == tea.KeyEnter:
			return m.submit()
		case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := headerStyle.Render(fmt.Sprintf("%s · %s · %s  (esc to quit)", m.cfg.Lang, m.level, m.cfg.Scenario))
	footer := m.input.View()
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return header + "\n" + m.viewport.View() + "\n" + footer
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.lines = append(m.lines, line{speaker: "you", text: text})
	m.waiting = true
	m.errMsg = ""
	m.renderTranscript()
	m.viewport.GotoBottom()
	return m, m.replyCmd(text)
}

// replyCmd fetches the tutor reply, then extracts and stores new
// vocabulary from the exchange.
func (m *Model) replyCmd(text string) tea.Cmd {
	turn := tutor.ChatTurn{
		Language: m.cfg.Lang,
		Level:    m.level,
		Scenario: m.cfg.Scenario,
		Input:    text,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		reply, err := m.client.Reply(ctx, turn)
		if err != nil {
			return replyMsg{err: err}
		}
		saved, notice := m.harvestVocab(ctx, text+"\n"+reply)
		return replyMsg{reply: reply, saved: saved, notice: notice}
	}
}

// harvestVocab extracts vocabulary from the exchange and stores new words.
// Failures do not fail the turn; they come back as a notice.
func (m *Model) harvestVocab(ctx context.Context, exchange string) (saved []string, notice string) {
	candidates, err := m.client.ExtractVocab(ctx, m.cfg.Lang, exchange)
	if err != nil {
		return nil, fmt.Sprintf("no vocabulary saved: %v", err)
	}
	if len(candidates) == 0 {
		return nil, ""
	}
	saved, err = m.store.SaveCandidates(ctx, m.cfg.Lang, candidates, time.Now())
	if err != nil {
		return nil, fmt.Sprintf("failed to save vocabulary: %v", err)
	}
	return saved, ""
}

func (m *Model) updateLayout() {
	inputHeight := 1
	if m.errMsg != "" {
		inputHeight = 2
	}
	height := m.height - 1 - inputHeight - 1
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.input.Width = maxInt(10, m.width-lipgloss.Width(m.input.Prompt)-2)
}

func (m *Model) renderTranscript() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	parts := make([]string, 0, len(m.lines)+1)
	for _, l := range m.lines {
		parts = append(parts, renderLine(l, width))
	}
	if m.waiting {
		parts = append(parts, pendingStyle.Render("..."))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

func renderLine(l line, width int) string {
	wrapped := lipgloss.NewStyle().Width(width).Render(l.text)
	switch l.speaker {
	case "you":
		return userStyle.Render("You") + "\n" + wrapped
	case "saved":
		return savedStyle.Render("Saved: " + l.text)
	case "notice":
		return pendingStyle.Render(l.text)
	default:
		return tutorStyle.Render(wrapped)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
