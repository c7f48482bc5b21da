package game

import "github.com/lox/gesturejack/internal/deck"

// Snapshot is a point-in-time view of the table for presentation layers.
// It contains the dealer's hole card even before it is revealed; anything
// crossing a trust boundary masks it (see server.MaskSnapshot).
type Snapshot struct {
	RoundID        string      `json:"roundId,omitempty"`
	Phase          Phase       `json:"phase"`
	Balance        int         `json:"balance"`
	Bet            int         `json:"bet"`
	Player         []deck.Card `json:"playerHand"`
	PlayerScore    int         `json:"playerScore"`
	PlayerSoft     bool        `json:"playerSoft"`
	Dealer         []deck.Card `json:"dealerHand"`
	DealerScore    int         `json:"dealerScore"`
	DealerRevealed bool        `json:"dealerRevealed"`
	CardsRemaining int         `json:"cardsRemaining"`
	LastResult     Result      `json:"lastResult,omitempty"`
	LastPayout     int         `json:"lastPayout"`
	CanDouble      bool        `json:"canDouble"`
	Busy           bool        `json:"busy"`
	OutOfFunds     bool        `json:"outOfFunds"`
	Stats          Stats       `json:"stats"`
}

func (t *Table) snapshotLocked() Snapshot {
	remaining := 0
	if t.deck != nil {
		remaining = t.deck.CardsRemaining()
	}

	return Snapshot{
		RoundID:        t.roundID,
		Phase:          t.phase,
		Balance:        t.balance,
		Bet:            t.bet,
		Player:         t.player.Cards(),
		PlayerScore:    t.player.Score(),
		PlayerSoft:     t.player.IsSoft(),
		Dealer:         t.dealer.Cards(),
		DealerScore:    t.dealer.Score(),
		DealerRevealed: t.dealerRevealed,
		CardsRemaining: remaining,
		LastResult:     t.lastResult,
		LastPayout:     t.lastPayout,
		CanDouble:      t.phase == PhasePlaying && !t.busy && t.player.Len() == 2 && t.balance >= t.bet,
		Busy:           t.busy,
		OutOfFunds:     t.outOfFunds,
		Stats:          t.stats,
	}
}
