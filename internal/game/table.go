package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/roundid"
)

// Phase is the round phase
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseDealing    Phase = "dealing"
	PhasePlaying    Phase = "playing"
	PhaseDealerTurn Phase = "dealer-turn"
	PhaseGameOver   Phase = "game-over"
)

const (
	// DefaultStartingBalance is the stake a fresh table begins with
	DefaultStartingBalance = 1000

	// DefaultMinimumBet is the smallest bet a round can open with
	DefaultMinimumBet = 1

	// dealerStandScore is the score at which the dealer stops drawing
	dealerStandScore = 17
)

// Table owns a single blackjack session: the live round, the balance that
// persists across rounds and the cumulative statistics. Exactly one round
// is live at a time.
//
// All mutating operations are no-ops when their phase or precondition
// guard fails, and while a multi-step sequence (the deal, the dealer's
// draw loop) is in flight. Callers that need to know whether an operation
// applied should compare snapshots.
type Table struct {
	mu     sync.Mutex
	logger *log.Logger
	clock  quartz.Clock
	bus    EventBus

	balance         int
	startingBalance int
	minimumBet      int
	bet             int

	roundID        string
	deck           *deck.Deck
	player         Hand
	dealer         Hand
	phase          Phase
	dealerRevealed bool
	lastResult     Result
	lastPayout     int
	stats          Stats
	outOfFunds     bool

	// busy blocks all mutating operations while a deal or dealer-draw
	// sequence is pacing between cards.
	busy bool

	dealDelay time.Duration
	newDeck   func() *deck.Deck
}

// TableOption configures a Table during creation
type TableOption func(*Table)

// WithClock sets the clock used for pacing delays and event timestamps
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithEventBus sets the event bus rounds publish to
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) { t.bus = bus }
}

// WithStartingBalance sets the initial (and post-Reset) balance
func WithStartingBalance(balance int) TableOption {
	return func(t *Table) { t.startingBalance = balance }
}

// WithMinimumBet sets the smallest bet a round can open with
func WithMinimumBet(min int) TableOption {
	return func(t *Table) { t.minimumBet = min }
}

// WithDealDelay sets the presentation pacing between dealt cards.
// Zero disables pacing; the final state of every round is identical
// regardless of this value.
func WithDealDelay(d time.Duration) TableOption {
	return func(t *Table) { t.dealDelay = d }
}

// WithDeckFactory overrides how fresh decks are built, letting tests
// stack exact cards
func WithDeckFactory(f func() *deck.Deck) TableOption {
	return func(t *Table) { t.newDeck = f }
}

// NewTable creates a table in the waiting phase
func NewTable(logger *log.Logger, opts ...TableOption) *Table {
	t := &Table{
		logger:          logger.WithPrefix("table"),
		clock:           quartz.NewReal(),
		bus:             NewEventBus(),
		startingBalance: DefaultStartingBalance,
		minimumBet:      DefaultMinimumBet,
		phase:           PhaseWaiting,
		newDeck: func() *deck.Deck {
			d := deck.New()
			d.Shuffle()
			return d
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	t.balance = t.startingBalance
	return t
}

// EventBus returns the bus rounds publish to
func (t *Table) EventBus() EventBus {
	return t.bus
}

// Phase returns the current round phase
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// IsBusy reports whether a multi-step sequence is in flight
func (t *Table) IsBusy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// CanDouble reports whether a double-down is currently legal
func (t *Table) CanDouble() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase == PhasePlaying && !t.busy && t.player.Len() == 2 && t.balance >= t.bet
}

// Deal starts a new round with the given bet. It debits the balance,
// builds a fresh shuffled deck, deals two cards to each seat (the
// dealer's second card face down) and either settles immediately on a
// natural or moves to the playing phase.
func (t *Table) Deal(amount int) {
	t.mu.Lock()
	if t.phase != PhaseWaiting || t.busy || amount <= 0 || amount > t.balance || amount < t.minimumBet {
		t.logger.Debug("deal rejected", "phase", t.phase, "busy", t.busy, "amount", amount, "balance", t.balance)
		t.mu.Unlock()
		return
	}

	t.busy = true
	t.bet = amount
	t.balance -= amount
	t.roundID = roundid.Generate()
	t.deck = t.newDeck()
	t.player.reset()
	t.dealer.reset()
	t.dealerRevealed = false
	t.lastResult = ResultNone
	t.lastPayout = 0
	t.stats.recordDeal()
	t.setPhase(PhaseDealing)

	t.logger.Info("round started", "roundID", t.roundID, "bet", amount, "balance", t.balance)
	t.publish(RoundStartedEvent{RoundID: t.roundID, Bet: amount, Balance: t.balance, timestamp: t.clock.Now()})

	// player, dealer, player, dealer (hole)
	t.dealCard(SeatPlayer, false)
	t.pace()
	t.dealCard(SeatDealer, false)
	t.pace()
	t.dealCard(SeatPlayer, false)
	t.pace()
	t.dealCard(SeatDealer, true)

	if t.player.IsBlackjack() || t.dealer.IsBlackjack() {
		t.revealDealer()
		t.settle()
	} else {
		t.setPhase(PhasePlaying)
	}

	t.busy = false
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the table state
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Hit deals one card to the player. Busting settles the round as a loss;
// reaching exactly 21 stands automatically.
func (t *Table) Hit() {
	t.mu.Lock()
	if t.phase != PhasePlaying || t.busy {
		t.logger.Debug("hit rejected", "phase", t.phase, "busy", t.busy)
		t.mu.Unlock()
		return
	}

	t.dealCard(SeatPlayer, false)

	switch {
	case t.player.IsBust():
		t.revealDealer()
		t.settle()
	case t.player.Score() == 21:
		t.stand()
	}
	t.mu.Unlock()
}

// Stand ends the player turn: the hole card is revealed and the dealer
// draws to dealerStandScore or deck exhaustion, then the round settles.
// The dealer's policy is fixed; there is no decision to make.
func (t *Table) Stand() {
	t.mu.Lock()
	if t.phase != PhasePlaying || t.busy {
		t.logger.Debug("stand rejected", "phase", t.phase, "busy", t.busy)
		t.mu.Unlock()
		return
	}

	t.stand()
	t.mu.Unlock()
}

// stand runs the dealer turn and settlement. The lock is held on entry
// and exit; pace releases it between dealer cards.
func (t *Table) stand() {
	t.busy = true
	t.setPhase(PhaseDealerTurn)
	t.revealDealer()

	for t.dealer.Score() < dealerStandScore && !t.deck.IsEmpty() {
		t.pace()
		t.dealCard(SeatDealer, false)
	}

	t.settle()
	t.busy = false
}

// Double doubles the bet, deals exactly one card and stands unless the
// card busted the hand. Legal only with exactly two player cards and
// enough balance to cover the second stake.
func (t *Table) Double() {
	t.mu.Lock()
	if t.phase != PhasePlaying || t.busy || t.player.Len() != 2 || t.balance < t.bet {
		t.logger.Debug("double rejected", "phase", t.phase, "busy", t.busy,
			"cards", t.player.Len(), "balance", t.balance, "bet", t.bet)
		t.mu.Unlock()
		return
	}

	t.balance -= t.bet
	t.bet *= 2
	t.logger.Info("double down", "roundID", t.roundID, "bet", t.bet, "balance", t.balance)

	t.dealCard(SeatPlayer, false)

	if t.player.IsBust() {
		t.revealDealer()
		t.settle()
	} else {
		t.stand()
	}
	t.mu.Unlock()
}

// NextRound clears the finished round and returns to the waiting phase.
// If the balance has dropped below the minimum bet the table stays in a
// terminal out-of-funds state until Reset.
func (t *Table) NextRound() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseGameOver || t.busy {
		t.logger.Debug("next round rejected", "phase", t.phase, "busy", t.busy)
		return
	}

	if t.balance < t.minimumBet {
		t.outOfFunds = true
		t.logger.Info("out of funds", "balance", t.balance, "minimumBet", t.minimumBet)
		return
	}

	t.deck = nil
	t.player.reset()
	t.dealer.reset()
	t.dealerRevealed = false
	t.roundID = ""
	if t.bet > t.balance {
		t.bet = t.balance
	}
	t.setPhase(PhaseWaiting)
}

// Reset restores the starting balance and zeroes all round state and
// cumulative statistics
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy {
		t.logger.Debug("reset rejected while busy")
		return
	}

	t.balance = t.startingBalance
	t.bet = 0
	t.deck = nil
	t.player.reset()
	t.dealer.reset()
	t.dealerRevealed = false
	t.roundID = ""
	t.lastResult = ResultNone
	t.lastPayout = 0
	t.stats = Stats{}
	t.outOfFunds = false
	t.setPhase(PhaseWaiting)
	t.logger.Info("table reset", "balance", t.balance)
}

// dealCard pops the next card onto the given seat's hand. Callers hold
// the lock and guarantee the phase allows dealing; an exhausted deck here
// means dealer play, which settles immediately at the call site.
func (t *Table) dealCard(seat Seat, hidden bool) {
	hand := &t.player
	if seat == SeatDealer {
		hand = &t.dealer
	}

	card, ok := t.deck.Deal()
	if !ok {
		t.logger.Warn("deck exhausted", "roundID", t.roundID, "seat", seat)
		return
	}

	hand.Add(card)
	t.publish(CardDealtEvent{
		Seat:      seat,
		Card:      card,
		Hidden:    hidden,
		Score:     hand.Score(),
		timestamp: t.clock.Now(),
	})
}

func (t *Table) revealDealer() {
	if t.dealerRevealed || t.dealer.Len() == 0 {
		return
	}
	t.dealerRevealed = true
	cards := t.dealer.Cards()
	hole := cards[len(cards)-1]
	t.publish(DealerRevealedEvent{Card: hole, Score: t.dealer.Score(), timestamp: t.clock.Now()})
}

// settle applies the settlement rules once, credits the payout and
// records statistics. Callers hold the lock; both hands are final.
func (t *Table) settle() {
	result, payout := decideOutcome(&t.player, &t.dealer, t.bet)

	t.balance += payout
	t.lastResult = result
	t.lastPayout = payout

	switch {
	case result.IsWin():
		t.stats.recordWin(payout - t.bet)
	case result == ResultLoss:
		t.stats.recordLoss(t.bet)
	default:
		t.stats.recordPush()
	}

	t.setPhase(PhaseGameOver)
	t.logger.Info("round settled",
		"roundID", t.roundID,
		"result", result,
		"payout", payout,
		"balance", t.balance,
		"player", t.player.Score(),
		"dealer", t.dealer.Score())

	t.publish(RoundSettledEvent{
		RoundID:     t.roundID,
		Result:      result,
		Payout:      payout,
		Balance:     t.balance,
		PlayerScore: t.player.Score(),
		DealerScore: t.dealer.Score(),
		Stats:       t.stats,
		timestamp:   t.clock.Now(),
	})
}

func (t *Table) setPhase(p Phase) {
	if t.phase == p {
		return
	}
	from := t.phase
	t.phase = p
	t.publish(PhaseChangedEvent{From: from, To: p, timestamp: t.clock.Now()})
}

func (t *Table) publish(event Event) {
	if t.bus != nil {
		t.bus.Publish(event)
	}
}

// pace sleeps for the configured deal delay, releasing the lock so
// readers can observe intermediate state and other mutating operations
// hit the busy guard instead of queueing. Purely presentational;
// correctness never depends on it.
func (t *Table) pace() {
	if t.dealDelay <= 0 {
		return
	}
	t.mu.Unlock()
	timer := t.clock.NewTimer(t.dealDelay)
	<-timer.C
	timer.Stop()
	t.mu.Lock()
}
