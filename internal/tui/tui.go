package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
)

// Model is the Bubble Tea model for a local blackjack table. Keyboard
// actions go through the same dispatcher gestures do, so the TUI and
// the gesture pipeline share one set of guard rules.
type Model struct {
	table      *game.Table
	dispatcher *gesture.Dispatcher
	pipeline   *gesture.Pipeline
	settings   gesture.SettingsProvider
	logger     *log.Logger

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	// State
	events   chan game.Event
	gameLog  []string
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// eventMsg carries a round event into the Bubble Tea loop
type eventMsg struct {
	event game.Event
}

// progressTickMsg refreshes the gesture hold indicator
type progressTickMsg struct{}

// NewModel creates a TUI model for a table
func NewModel(logger *log.Logger, table *game.Table, provider gesture.SettingsProvider) *Model {
	return NewModelWithOptions(logger, table, provider, false)
}

// NewModelWithOptions creates a TUI model with test mode option
func NewModelWithOptions(logger *log.Logger, table *game.Table, provider gesture.SettingsProvider, testMode bool) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Bet amount"
	ti.Focus()
	ti.CharLimit = 10
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		table:       table,
		dispatcher:  gesture.NewDispatcher(logger, table, provider),
		settings:    provider,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
		events:      make(chan game.Event, 64),
		gameLog:     []string{},
		testMode:    testMode,
		capturedLog: []string{},
	}

	// The subscriber runs with the table lock held; it must never block
	table.EventBus().Subscribe(game.SubscriberFunc(func(event game.Event) {
		select {
		case m.events <- event:
		default:
		}
	}))

	return m
}

// AttachPipeline wires a running gesture pipeline so the view can show
// hold progress alongside keyboard input
func (m *Model) AttachPipeline(p *gesture.Pipeline) {
	m.pipeline = p
}

// IsTestMode reports whether log capture is enabled
func (m *Model) IsTestMode() bool {
	return m.testMode
}

// GetCapturedLog returns captured log entries in test mode, nil otherwise
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	return m.capturedLog
}

// AddLogEntry appends a line to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForEvent()}
	if m.pipeline != nil {
		cmds = append(cmds, m.progressTick())
	}
	return tea.Batch(cmds...)
}

// waitForEvent returns a command that delivers the next round event
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-m.events}
	}
}

func (m *Model) progressTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		m.AddLogEntry(m.formatEvent(msg.event))
		cmds = append(cmds, m.waitForEvent())

	case progressTickMsg:
		cmds = append(cmds, m.progressTick())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		}

		if m.table.Phase() == game.PhaseWaiting {
			if msg.String() == "enter" {
				m.placeBet(strings.TrimSpace(m.betInput.Value()))
				m.betInput.SetValue("")
			} else {
				var cmd tea.Cmd
				m.betInput, cmd = m.betInput.Update(msg)
				cmds = append(cmds, cmd)
			}
		} else {
			m.handleActionKey(msg.String())
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) placeBet(input string) {
	if input == "" {
		return
	}
	amount, err := strconv.Atoi(input)
	if err != nil || amount <= 0 {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Invalid bet: %s", input)))
		return
	}
	m.table.Deal(amount)
}

// handleActionKey maps keys onto the same triggers gestures produce, so
// keyboard play obeys identical phase and busy guards
func (m *Model) handleActionKey(key string) {
	s := m.settings.Get()
	now := time.Now()

	switch key {
	case "h":
		m.dispatcher.HandleTrigger(gesture.Trigger{Label: s.HitGesture, At: now})
	case "s":
		m.dispatcher.HandleTrigger(gesture.Trigger{Label: s.StandGesture, At: now})
	case "d":
		m.dispatcher.HandleTrigger(gesture.Trigger{Label: s.DoubleGesture, At: now})
	case "n", "enter":
		m.table.NextRound()
	case "r":
		m.table.Reset()
	}
}

// formatEvent turns a round event into a log line
func (m *Model) formatEvent(event game.Event) string {
	switch e := event.(type) {
	case game.RoundStartedEvent:
		return HeaderStyle.Render(fmt.Sprintf(" Round %s — bet $%d ", e.RoundID, e.Bet))

	case game.CardDealtEvent:
		seat := "Player"
		if e.Seat == game.SeatDealer {
			seat = "Dealer"
		}
		if e.Hidden {
			return fmt.Sprintf("%s receives %s", seat, HiddenCardStyle.Render("[hidden]"))
		}
		return fmt.Sprintf("%s receives %s (%d)", seat, m.formatCard(e.Card), e.Score)

	case game.DealerRevealedEvent:
		return fmt.Sprintf("Dealer reveals %s (%d)", m.formatCard(e.Card), e.Score)

	case game.RoundSettledEvent:
		switch e.Result {
		case game.ResultBlackjack:
			return SuccessStyle.Render(fmt.Sprintf("Blackjack! You win $%d", e.Payout))
		case game.ResultWin:
			return SuccessStyle.Render(fmt.Sprintf("You win $%d", e.Payout))
		case game.ResultPush:
			return WarningStyle.Render(fmt.Sprintf("Push — $%d returned", e.Payout))
		default:
			return ErrorStyle.Render(fmt.Sprintf("You lose — %d vs dealer %d", e.PlayerScore, e.DealerScore))
		}

	case game.PhaseChangedEvent:
		return InfoStyle.Render(fmt.Sprintf("— %s —", e.To))

	default:
		return InfoStyle.Render(string(event.EventType()))
	}
}

func (m *Model) formatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

func (m *Model) formatHand(cards []deck.Card, hideHole bool) string {
	if len(cards) == 0 {
		return InfoStyle.Render("—")
	}

	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		if hideHole && i == 1 {
			parts = append(parts, HiddenCardStyle.Render("🂠"))
			continue
		}
		parts = append(parts, m.formatCard(c))
	}
	return strings.Join(parts, " ")
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.table.Snapshot()

	header := HeaderStyle.Render(fmt.Sprintf(" Gesturejack  Balance $%d ", snap.Balance))

	dealerScore := ""
	if snap.DealerRevealed {
		dealerScore = fmt.Sprintf(" (%d)", snap.DealerScore)
	}
	dealerLine := fmt.Sprintf("%s %s%s",
		HandLabelStyle.Render("Dealer:"),
		m.formatHand(snap.Dealer, !snap.DealerRevealed),
		dealerScore)

	playerScore := fmt.Sprintf(" (%d", snap.PlayerScore)
	if snap.PlayerSoft {
		playerScore += " soft"
	}
	playerScore += ")"
	playerLine := fmt.Sprintf("%s %s%s",
		HandLabelStyle.Render("Player:"),
		m.formatHand(snap.Player, false),
		playerScore)

	table := lipgloss.JoinVertical(lipgloss.Left, header, "", dealerLine, playerLine, "", m.statusLine(snap))

	logHeight := m.height - lipgloss.Height(table) - 6
	if logHeight < 1 {
		logHeight = 1
	}
	logWidth := m.width - 4
	if logWidth < 1 {
		logWidth = 1
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, table, logPane, m.inputLine(snap))
}

// statusLine shows bet, result and gesture hold state
func (m *Model) statusLine(snap game.Snapshot) string {
	var parts []string

	if snap.Bet > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("Bet $%d", snap.Bet)))
	}
	if snap.OutOfFunds {
		parts = append(parts, ErrorStyle.Render("Out of funds — press r to start over"))
	}
	if m.pipeline != nil {
		if bar := m.renderHoldProgress(); bar != "" {
			parts = append(parts, bar)
		}
	}
	if len(parts) == 0 {
		return InfoStyle.Render(string(snap.Phase))
	}
	return strings.Join(parts, "  ")
}

// renderHoldProgress draws the hold-to-confirm bar for the tracked
// gesture, empty when the pipeline is idle
func (m *Model) renderHoldProgress() string {
	state := m.pipeline.State()
	if state == gesture.StateIdle {
		return ""
	}

	const width = 20
	filled := int(m.pipeline.Progress() * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	label := m.pipeline.TrackedLabel()
	if state == gesture.StateCooldown {
		label = "cooldown"
	}
	return ProgressStyle.Render(fmt.Sprintf("%s %s", bar, label))
}

func (m *Model) inputLine(snap game.Snapshot) string {
	switch snap.Phase {
	case game.PhaseWaiting:
		return m.betInput.View() + "\n" + InfoStyle.Render("Enter a bet to deal • Ctrl+C to quit")
	case game.PhasePlaying:
		keys := "[h]it  [s]tand"
		if snap.CanDouble {
			keys += "  [d]ouble"
		}
		return "\n" + InfoStyle.Render(keys+" • Ctrl+C to quit")
	case game.PhaseGameOver:
		return "\n" + InfoStyle.Render("[n]ext round  [r]eset • Ctrl+C to quit")
	default:
		return "\n" + InfoStyle.Render("Dealer playing...")
	}
}
