package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgtcty/manualqa/internal/domain"
)

// QAPort is the TUI-facing subset of the query orchestrator.
type QAPort interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Model is the Bubble Tea model for the chat surface.
type Model struct {
	service  QAPort
	input    textinput.Model
	viewport viewport.Model
	manuals  []domain.Manual
	history  []string
	status   string
	ready    bool
}

// New creates a new chat model showing the loaded manuals.
func New(service QAPort, manuals []domain.Manual) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the manuals and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		manuals:  manuals,
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + qh + 1 // header, manuals line, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.viewport.SetContent(m.renderHistory())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.history = append(m.history, youStyle.Render("You: ")+q)
				m.input.SetValue("")
				m.status = "Thinking..."
				answer, err := m.service.Answer(context.Background(), q)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.history = append(m.history, aiStyle.Render("AI: ")+"Sorry, I could not answer that. "+err.Error())
				} else {
					m.status = "Answers may contain mistakes. Check the cited pages."
					m.history = append(m.history, aiStyle.Render("AI: ")+answer)
				}
				m.viewport.SetContent(m.renderHistory())
				m.viewport.GotoBottom()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("AI Manual Assistant")
	manuals := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.renderManuals())
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + manuals + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderManuals() string {
	if len(m.manuals) == 0 {
		return "No manuals loaded yet."
	}
	parts := make([]string, len(m.manuals))
	for i, man := range m.manuals {
		parts[i] = fmt.Sprintf("%d.) %s", i+1, man.Title)
	}
	return "Manuals: " + strings.Join(parts, "  ")
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "Ask a question about the loaded manuals."
	}
	return strings.Join(m.history, "\n\n")
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	aiStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
