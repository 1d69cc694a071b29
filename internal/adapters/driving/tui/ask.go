// Package tui provides the interactive question-and-answer terminal UI.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
)

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// exchange is one answered question shown in the transcript.
type exchange struct {
	question string
	answer   driving.Answer
}

// answerMsg carries the result of an asynchronous ask.
type answerMsg struct {
	question string
	answer   driving.Answer
	err      error
}

// Styles holds the lipgloss styles for the QA view.
type Styles struct {
	Title    lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Source   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Question: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

// Model is the QA loop following the Elm architecture.
type Model struct {
	answerer driving.Answerer
	ctx      context.Context
	styles   *Styles

	input   textinput.Model
	history []exchange

	thinking bool
	pending  string
	err      error
	width    int
}

// NewModel creates the QA model.
func NewModel(ctx context.Context, answerer driving.Answerer) *Model {
	input := textinput.New()
	input.Placeholder = "輸入股市問題，例如：台積電最近的技術指標如何？"
	input.Prompt = "問題> "
	input.CharLimit = 512
	input.Focus()

	return &Model{
		answerer: answerer,
		ctx:      ctx,
		styles:   DefaultStyles(),
		input:    input,
		width:    80,
	}
}

// Init initialises the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(m.input.Prompt) - 2
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case answerMsg:
		m.thinking = false
		m.pending = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.history = append(m.history, exchange{
			question: msg.question,
			answer:   msg.answer,
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts an asynchronous ask for the current input.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.thinking {
		return m, nil
	}
	if isQuitWord(question) {
		return m, tea.Quit
	}

	m.input.Reset()
	m.thinking = true
	m.pending = question
	m.err = nil

	return m, m.askCmd(question)
}

// askCmd wraps the answerer call as a tea command.
func (m *Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answerer.Ask(m.ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// View renders the transcript, status line, and input.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("台股智能分析"))
	b.WriteString("\n\n")

	for _, ex := range m.history {
		b.WriteString(m.styles.Question.Render("問：" + ex.question))
		b.WriteString("\n")
		b.WriteString(m.styles.Answer.Render(ex.answer.Text))
		b.WriteString("\n")
		for i, src := range ex.answer.Sources {
			line := fmt.Sprintf("  [%d] %s %s %s (相關度 %.3f)",
				i+1, src.StockID, src.StockName, src.Date, src.Score)
			b.WriteString(m.styles.Source.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.thinking {
		b.WriteString(m.styles.Question.Render("問：" + m.pending))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("思考中..."))
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("錯誤：" + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("Enter 送出 · Esc 離開 · 輸入 quit/exit/q 結束"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, answerer driving.Answerer) error {
	program := tea.NewProgram(NewModel(ctx, answerer))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// isQuitWord reports whether the input ends the session.
func isQuitWord(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "q", "離開", "結束":
		return true
	}
	return false
}
