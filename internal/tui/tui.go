package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

const (
	logPane = iota
	inputPane
)

// TUIModel is the Bubble Tea model for hot-seat play of one match. Every
// player at the table types commands into the same input.
type TUIModel struct {
	match   *game.Match
	advisor advisor.Strategy
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewTUIModel creates a TUI for match
func NewTUIModel(match *game.Match, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(match, logger, false)
}

// NewTUIModelWithOptions creates a TUI with test mode option. In test mode
// log entries are captured as plain text and the viewport is left alone.
func NewTUIModelWithOptions(match *game.Match, logger *log.Logger, testMode bool) *TUIModel {
	// Properly sized when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "roll, hold 1 3 5, score fullHouse, hint, quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		match:       match,
		advisor:     advisor.NewHeuristic(),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: inputPane,
		testMode:    testMode,
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == logPane {
				m.focusedPane = inputPane
				m.actionInput.Focus()
			} else {
				m.focusedPane = logPane
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == inputPane {
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if quit := m.Execute(input); quit {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "k":
			if m.focusedPane == logPane {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == logPane {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == logPane {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == logPane {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == logPane {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == logPane {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == inputPane {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == inputPane {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderScoreboard()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // Borders and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, show the latest entries
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height)
	if m.focusedPane == logPane {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// AddLogEntry adds an entry to the game log. styled is what the terminal
// shows; test mode captures the plain text.
func (m *TUIModel) AddLogEntry(plain string, style lipgloss.Style) {
	m.gameLog = append(m.gameLog, style.Render(plain))

	if m.testMode {
		m.capturedLog = append(m.capturedLog, plain)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = nil
	m.logViewport.SetContent("")
}

// Quitting reports whether the user asked to leave.
func (m *TUIModel) Quitting() bool {
	return m.quitting
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// OnEvent turns match events into log entries. Subscribe the model to the
// match's event bus to see rolls and scores as they happen.
func (m *TUIModel) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.TurnStartedEvent:
		m.AddLogEntry(fmt.Sprintf("*** Round %d: %s to roll ***", e.Round, e.Player), TurnStyle)
	case game.DiceRolledEvent:
		m.AddLogEntry(fmt.Sprintf("%s rolled %s (%d rolls left)", e.Player, formatHand(e.Hand, e.Held, false), e.RollsLeft), DieStyle)
	case game.HoldToggledEvent:
		verb := "released"
		if e.Held {
			verb = "held"
		}
		m.AddLogEntry(fmt.Sprintf("%s %s die %d", e.Player, verb, e.Index+1), InfoStyle)
	case game.ScoreCommittedEvent:
		m.AddLogEntry(fmt.Sprintf("%s scored %d in %s", e.Player, e.Points, e.Category.Name()), SuccessStyle)
	case game.MatchFinishedEvent:
		m.AddLogEntry("*** GAME OVER ***", HeaderStyle)
		for _, s := range e.Standings {
			m.AddLogEntry(fmt.Sprintf("%d. %s: %d (upper %d, bonus %d)", s.Rank, s.Player, s.Total, s.Upper, s.Bonus), TotalStyle)
		}
		m.AddLogEntry(fmt.Sprintf("%s wins with %d points! Type 'quit' to exit.", e.Winner.Player, e.Winner.Total), SuccessStyle)
	}
}
