package server

import (
	"encoding/json"
	"time"

	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type PlaceBetData struct {
	Amount int `json:"amount"`
}

type GestureSampleData struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StateData struct {
	State game.Snapshot `json:"state"`
}

type GestureProgressData struct {
	State    string  `json:"state"`
	Gesture  string  `json:"gesture,omitempty"`
	Progress float64 `json:"progress"`
}

type ActionTriggeredData struct {
	Gesture string `json:"gesture"`
	Action  string `json:"action"`
}

// Settings messages carry settings.Settings directly in both directions;
// its json tags define the wire format.

type GestureStatsData struct {
	Summary gesture.DetectionSummary `json:"summary"`
}

// Game event wire payloads. Event structs from internal/game are
// converted rather than marshalled directly so the hole card never
// leaves the process before reveal.

type RoundStartedData struct {
	RoundID string `json:"roundId"`
	Bet     int    `json:"bet"`
	Balance int    `json:"balance"`
}

type CardDealtData struct {
	Seat   game.Seat  `json:"seat"`
	Card   *deck.Card `json:"card,omitempty"`
	Hidden bool       `json:"hidden"`
	Score  int        `json:"score,omitempty"`
}

type PhaseChangedData struct {
	From game.Phase `json:"from"`
	To   game.Phase `json:"to"`
}

type DealerRevealedData struct {
	Card  deck.Card `json:"card"`
	Score int       `json:"score"`
}

type RoundSettledData struct {
	RoundID     string      `json:"roundId"`
	Result      game.Result `json:"result"`
	Payout      int         `json:"payout"`
	Balance     int         `json:"balance"`
	PlayerScore int         `json:"playerScore"`
	DealerScore int         `json:"dealerScore"`
	Stats       game.Stats  `json:"stats"`
}

// EventMessage converts a game event into its outbound wire message, or
// nil for event types with no client representation.
func EventMessage(event game.Event) *Message {
	var data interface{}

	switch e := event.(type) {
	case game.RoundStartedEvent:
		data = RoundStartedData{RoundID: e.RoundID, Bet: e.Bet, Balance: e.Balance}

	case game.CardDealtEvent:
		d := CardDealtData{Seat: e.Seat, Hidden: e.Hidden}
		if !e.Hidden {
			card := e.Card
			d.Card = &card
			d.Score = e.Score
		}
		data = d

	case game.PhaseChangedEvent:
		data = PhaseChangedData{From: e.From, To: e.To}

	case game.DealerRevealedEvent:
		data = DealerRevealedData{Card: e.Card, Score: e.Score}

	case game.RoundSettledEvent:
		data = RoundSettledData{
			RoundID:     e.RoundID,
			Result:      e.Result,
			Payout:      e.Payout,
			Balance:     e.Balance,
			PlayerScore: e.PlayerScore,
			DealerScore: e.DealerScore,
			Stats:       e.Stats,
		}

	default:
		return nil
	}

	msg, err := NewMessage(MessageType(event.EventType()), data)
	if err != nil {
		return nil
	}
	msg.Timestamp = event.Timestamp()
	return msg
}
