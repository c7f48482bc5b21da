package server

// Note: game events (round_started, card_dealt, etc.) are forwarded to
// clients as WebSocket messages whose type matches the event type string

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypePlaceBet       MessageType = "place_bet"
	MessageTypeHit            MessageType = "hit"
	MessageTypeStand          MessageType = "stand"
	MessageTypeDouble         MessageType = "double"
	MessageTypeNewRound       MessageType = "new_round"
	MessageTypeReset          MessageType = "reset"
	MessageTypeGetState       MessageType = "get_state"
	MessageTypeGestureSample  MessageType = "gesture_sample"
	MessageTypeUpdateSettings MessageType = "update_settings"
	MessageTypeGetSettings    MessageType = "get_settings"
	MessageTypeGestureStats   MessageType = "gesture_stats"

	// Server to client messages
	MessageTypeState           MessageType = "state"
	MessageTypeGestureProgress MessageType = "gesture_progress"
	MessageTypeActionTriggered MessageType = "action_triggered"
	MessageTypeSettings        MessageType = "settings"
	MessageTypeGestureStatsRes MessageType = "gesture_stats_result"
	MessageTypeError           MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
