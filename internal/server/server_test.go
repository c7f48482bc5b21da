package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/settings"
)

// testServer starts a server on an httptest listener with stacked decks
// and no presentation delays, and dials a websocket client into it.
func testServer(t *testing.T, ranks []deck.Rank) *websocket.Conn {
	t.Helper()

	srv := NewServer("", testLogger(), testStore(t), WithTableOptions(
		game.WithDealDelay(0),
		game.WithDeckFactory(func() *deck.Deck {
			d := deck.NewWithSeed(1)
			d.Shuffle()
			d.Stack(cardsOf(ranks...)...)
			return d
		}),
	))
	go srv.run()
	t.Cleanup(srv.Stop)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, mt MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// waitFor reads messages until one of the given type arrives
func waitFor(t *testing.T, conn *websocket.Conn, mt MessageType) *Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", mt)
		if msg.Type == mt {
			return &msg
		}
	}
}

// waitForState reads messages until a state snapshot in the given phase
// arrives
func waitForState(t *testing.T, conn *websocket.Conn, phase game.Phase) game.Snapshot {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg), "waiting for state in phase %s", phase)
		if msg.Type != MessageTypeState {
			continue
		}
		var data StateData
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		if data.State.Phase == phase {
			return data.State
		}
	}
}

func TestServerHealth(t *testing.T) {
	t.Parallel()

	srv := NewServer("", testLogger(), testStore(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerPlaysARound(t *testing.T) {
	t.Parallel()

	// player 17 vs dealer 14, dealer draws a three and pushes
	conn := testServer(t, []deck.Rank{deck.Ten, deck.Nine, deck.Seven, deck.Five, deck.Three})

	// connecting yields the initial state and settings unprompted
	initial := waitForState(t, conn, game.PhaseWaiting)
	assert.Equal(t, 1000, initial.Balance)

	settingsMsg := waitFor(t, conn, MessageTypeSettings)
	var initialSettings settings.Settings
	require.NoError(t, json.Unmarshal(settingsMsg.Data, &initialSettings))
	assert.Equal(t, settings.Default(), initialSettings)

	send(t, conn, MessageTypePlaceBet, PlaceBetData{Amount: 100})

	playing := waitForState(t, conn, game.PhasePlaying)
	assert.Equal(t, 100, playing.Bet)
	assert.Equal(t, 900, playing.Balance)
	assert.Equal(t, 17, playing.PlayerScore)
	require.Len(t, playing.Dealer, 1, "hole card stays behind the trust boundary")

	send(t, conn, MessageTypeStand, nil)

	settled := waitForState(t, conn, game.PhaseGameOver)
	assert.Equal(t, game.ResultPush, settled.LastResult)
	assert.Equal(t, 1000, settled.Balance)
	assert.True(t, settled.DealerRevealed)
	assert.Equal(t, 17, settled.DealerScore)
}

func TestServerGetStateEchoesRequestID(t *testing.T) {
	t.Parallel()

	conn := testServer(t, []deck.Rank{deck.Ten, deck.Nine, deck.Seven, deck.Five})
	waitFor(t, conn, MessageTypeSettings)

	msg, err := NewMessage(MessageTypeGetState, nil)
	require.NoError(t, err)
	msg.RequestID = "req-42"
	require.NoError(t, conn.WriteJSON(msg))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var reply Message
		require.NoError(t, conn.ReadJSON(&reply))
		if reply.Type == MessageTypeState && reply.RequestID == "req-42" {
			return
		}
	}
}

func TestServerRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	conn := testServer(t, []deck.Rank{deck.Ten, deck.Nine, deck.Seven, deck.Five})
	waitFor(t, conn, MessageTypeSettings)

	bad := settings.Default()
	bad.StandGesture = bad.HitGesture
	send(t, conn, MessageTypeUpdateSettings, bad)

	errMsg := waitFor(t, conn, MessageTypeError)
	var data ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &data))
	assert.Equal(t, "invalid_settings", data.Code)
}

func TestServerUnknownMessageType(t *testing.T) {
	t.Parallel()

	conn := testServer(t, []deck.Rank{deck.Ten, deck.Nine, deck.Seven, deck.Five})
	waitFor(t, conn, MessageTypeSettings)

	send(t, conn, MessageType("shuffle_up_and_deal"), nil)

	errMsg := waitFor(t, conn, MessageTypeError)
	var data ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &data))
	assert.Equal(t, "unknown_message_type", data.Code)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:0", testLogger(), testStore(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
