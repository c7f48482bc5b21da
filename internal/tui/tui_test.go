package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/settings"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testStore(t *testing.T) *settings.Store {
	t.Helper()
	store, err := settings.NewStore(settings.Default())
	require.NoError(t, err)
	return store
}

func stackedTable(t *testing.T, ranks ...deck.Rank) *game.Table {
	t.Helper()

	suits := []deck.Suit{deck.Spades, deck.Hearts, deck.Diamonds, deck.Clubs}
	cards := make([]deck.Card, len(ranks))
	for i, rank := range ranks {
		cards[i] = deck.NewCard(suits[i%len(suits)], rank)
	}

	return game.NewTable(testLogger(),
		game.WithDealDelay(0),
		game.WithDeckFactory(func() *deck.Deck {
			d := deck.NewWithSeed(1)
			d.Shuffle()
			d.Stack(cards...)
			return d
		}),
	)
}

// drainEvents pulls buffered round events through the model so the log
// reflects everything the table published
func drainEvents(m *Model) {
	for {
		select {
		case event := <-m.events:
			m.AddLogEntry(m.formatEvent(event))
		default:
			return
		}
	}
}

func TestModelCapturesLogInTestMode(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	assert.True(t, m.IsTestMode())
	assert.Empty(t, m.GetCapturedLog())

	m.AddLogEntry("first")
	m.AddLogEntry("second")

	captured := m.GetCapturedLog()
	require.Len(t, captured, 2)
	assert.Equal(t, "first", captured[0])
	assert.Equal(t, "second", captured[1])
}

func TestModelProductionModeDoesNotCapture(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModel(testLogger(), table, testStore(t))

	assert.False(t, m.IsTestMode())
	m.AddLogEntry("entry")
	assert.Nil(t, m.GetCapturedLog())
}

func TestModelBetEntryStartsRound(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	m.betInput.SetValue("100")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, game.PhasePlaying, table.Phase())
	assert.Equal(t, 100, table.Snapshot().Bet)
}

func TestModelRejectsUnparseableBet(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	m.betInput.SetValue("all of it")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, game.PhaseWaiting, table.Phase())
	captured := m.GetCapturedLog()
	require.Len(t, captured, 1)
	assert.Contains(t, captured[0], "Invalid bet")
}

func TestModelActionKeysGoThroughDispatcher(t *testing.T) {
	t.Parallel()

	// player 17 vs dealer 14, dealer draws a three and pushes
	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five, deck.Three)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	table.Deal(100)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	snap := table.Snapshot()
	assert.Equal(t, game.PhaseGameOver, snap.Phase)
	assert.Equal(t, game.ResultPush, snap.LastResult)
	assert.Equal(t, 1000, snap.Balance)
}

func TestModelNextRoundKey(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five, deck.Three)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	table.Deal(100)
	table.Stand()
	require.Equal(t, game.PhaseGameOver, table.Phase())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, game.PhaseWaiting, table.Phase())
}

func TestModelFormatsRoundEvents(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five, deck.Three)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	table.Deal(100)
	table.Stand()
	drainEvents(m)

	captured := m.GetCapturedLog()
	require.NotEmpty(t, captured)

	joined := ""
	for _, line := range captured {
		joined += line + "\n"
	}
	assert.Contains(t, joined, "bet $100")
	assert.Contains(t, joined, "[hidden]", "hole card deal is logged face down")
	assert.Contains(t, joined, "Dealer reveals")
	assert.Contains(t, joined, "Push")
}

func TestModelViewRendersHands(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	table.Deal(100)

	view := m.View()
	assert.Contains(t, view, "Balance $900")
	assert.Contains(t, view, "Dealer:")
	assert.Contains(t, view, "Player:")
	assert.Contains(t, view, "(17)")
	assert.Contains(t, view, "🂠", "hole card renders face down")
}

func TestModelViewBeforeSizing(t *testing.T) {
	t.Parallel()

	table := stackedTable(t, deck.Ten, deck.Nine, deck.Seven, deck.Five)
	m := NewModelWithOptions(testLogger(), table, testStore(t), true)

	assert.Equal(t, "Loading...", m.View())
}
