package game

import (
	"time"

	"github.com/lox/gesturejack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round domain events
const (
	EventTypeRoundStarted   EventType = "round_started"
	EventTypeCardDealt      EventType = "card_dealt"
	EventTypePhaseChanged   EventType = "phase_changed"
	EventTypeDealerRevealed EventType = "dealer_revealed"
	EventTypeRoundSettled   EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Seat identifies which hand a card was dealt to
type Seat string

const (
	SeatPlayer Seat = "player"
	SeatDealer Seat = "dealer"
)

// Event represents any event that occurs during a round
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartedEvent is published when a bet is accepted and cards are dealt
type RoundStartedEvent struct {
	RoundID   string
	Bet       int
	Balance   int
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for each card dealt to either seat.
// Hidden is true for the dealer's hole card; Card is still populated so
// in-process subscribers can render a face-down card, but anything
// crossing a trust boundary must mask it (see server.MaskSnapshot).
type CardDealtEvent struct {
	Seat      Seat
	Card      deck.Card
	Hidden    bool
	Score     int
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// PhaseChangedEvent is published on every phase transition
type PhaseChangedEvent struct {
	From      Phase
	To        Phase
	timestamp time.Time
}

func (e PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }
func (e PhaseChangedEvent) Timestamp() time.Time { return e.timestamp }

// DealerRevealedEvent is published when the dealer's hole card turns over
type DealerRevealedEvent struct {
	Card      deck.Card
	Score     int
	timestamp time.Time
}

func (e DealerRevealedEvent) EventType() EventType { return EventTypeDealerRevealed }
func (e DealerRevealedEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published exactly once per round at settlement
type RoundSettledEvent struct {
	RoundID     string
	Result      Result
	Payout      int
	Balance     int
	PlayerScore int
	DealerScore int
	Stats       Stats
	timestamp   time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to round events. OnEvent is called with
// the table's internal lock held, so subscribers must not call back into
// the table; forward to a channel if processing is needed.
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// SubscriberFunc adapts a function to the EventSubscriber interface
type SubscriberFunc func(event Event)

// OnEvent implements EventSubscriber
func (f SubscriberFunc) OnEvent(event Event) { f(event) }
