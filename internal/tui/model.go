package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"csvchat/internal/chat"
)

// exitSentinel returns the user to the main menu (analysis mode) or quits
// the chatbot (search mode).
const exitSentinel = "exit"

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Search(ctx context.Context, query string) (chat.SearchOutcome, error)
	Analyze(ctx context.Context, query string) string
	Reset()
}

type mode int

const (
	modeSearch mode = iota
	modeAnalysis
)

// Model is the Bubble Tea model for the chatbot. The conversation runs in
// two modes: search (new top-level query) and analysis (follow-up questions
// about the downloaded files).
type Model struct {
	service    ChatPort
	input      textinput.Model
	viewport   viewport.Model
	mode       mode
	busy       bool
	status     string
	transcript []string
	ready      bool
}

// New creates a new TUI model instance.
func New(service ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		status:   "Type 'exit' to quit.",
		transcript: []string{
			"Welcome to the CSV Chatbot!",
		},
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type searchDoneMsg struct {
	query   string
	outcome chat.SearchOutcome
	answer  string
	err     error
}

type analysisDoneMsg struct {
	query  string
	answer string
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and query boxes
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 1
		totalFooterLines := 1
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.refreshViewport()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(q)
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	case searchDoneMsg:
		return m.finishSearch(msg)
	case analysisDoneMsg:
		m.busy = false
		m.append(youStyle.Render("You: ") + msg.query)
		m.append(botStyle.Render("Analysis: ") + msg.answer)
		m.status = "Ask another question, or type 'exit' to start a new search."
		m.refreshViewport()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(q string) (tea.Model, tea.Cmd) {
	if strings.EqualFold(q, exitSentinel) {
		if m.mode == modeAnalysis {
			m.service.Reset()
			m.mode = modeSearch
			m.append("Returning to the main menu...")
			m.status = "Enter a new query, or type 'exit' to quit."
			m.refreshViewport()
			return m, nil
		}
		return m, tea.Quit
	}
	m.busy = true
	if m.mode == modeSearch {
		m.status = "Processing your query..."
		return m, runSearch(m.service, q)
	}
	m.status = "Analyzing..."
	return m, runAnalysis(m.service, q)
}

func runSearch(service ChatPort, query string) tea.Cmd {
	return func() tea.Msg {
		out, err := service.Search(context.Background(), query)
		if err != nil {
			return searchDoneMsg{query: query, err: err}
		}
		msg := searchDoneMsg{query: query, outcome: out}
		if len(out.Paths) > 0 {
			msg.answer = service.Analyze(context.Background(), query)
		}
		return msg
	}
}

func runAnalysis(service ChatPort, query string) tea.Cmd {
	return func() tea.Msg {
		return analysisDoneMsg{query: query, answer: service.Analyze(context.Background(), query)}
	}
}

func (m Model) finishSearch(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.append(youStyle.Render("You: ") + msg.query)
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
		m.refreshViewport()
		return m, nil
	}
	out := msg.outcome
	if out.Result.InferenceErr != nil {
		m.append("The keyword service is unavailable; please try again later.")
		m.status = "Enter a new query."
		m.refreshViewport()
		return m, nil
	}
	if len(out.Result.Records) == 0 {
		if len(out.Result.QueryErrs) > 0 {
			m.append("No matching files found (some catalog queries failed).")
		} else {
			m.append("No matching files found.")
		}
		m.status = "Enter a new query."
		m.refreshViewport()
		return m, nil
	}
	m.append(fmt.Sprintf("Found %d results:", len(out.Result.Records)))
	for _, rec := range out.Result.Records {
		desc := rec.Description
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}
		m.append(fmt.Sprintf("  %q created by %q, size=%db: %s", rec.Title, rec.Creator, rec.Size, desc))
	}
	for _, f := range out.Failed {
		m.append(fmt.Sprintf("  could not download %s/%s", f.Record.Creator, f.Record.Name))
	}
	if len(out.Paths) == 0 {
		m.append("No files were downloaded.")
		m.status = "Enter a new query."
		m.refreshViewport()
		return m, nil
	}
	m.append(fmt.Sprintf("Downloaded %d files.", len(out.Paths)))
	m.append(botStyle.Render("Analysis: ") + msg.answer)
	m.mode = modeAnalysis
	m.status = "Ask a question about the downloaded files, or type 'exit' to return."
	m.refreshViewport()
	return m, nil
}

// View renders the TUI layout and the conversation so far.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("CSV Chatbot")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.busy {
		status = statusStyle.Render("Working...")
	}
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) append(line string) {
	m.transcript = append(m.transcript, line)
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
