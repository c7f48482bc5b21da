package game

import "github.com/lox/gesturejack/internal/deck"

// Hand is an ordered sequence of cards dealt to one seat.
// Scores are always derived from the cards, never stored.
type Hand struct {
	cards []deck.Card
}

// Add appends a card to the hand
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the hand's cards
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// Score returns the blackjack score of the hand
func (h *Hand) Score() int {
	return Score(h.cards)
}

// IsSoft returns true if the hand counts an Ace as 11
func (h *Hand) IsSoft() bool {
	return IsSoft(h.cards)
}

// IsBust returns true if the hand's score exceeds 21
func (h *Hand) IsBust() bool {
	return h.Score() > 21
}

// IsBlackjack returns true for a natural: exactly two cards totaling 21
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Score() == 21
}

func (h *Hand) reset() {
	h.cards = nil
}

// Score computes the blackjack total for a set of cards. Aces count 11,
// then are reduced to 1 one at a time while the total exceeds 21.
func Score(cards []deck.Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}

	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}

	return total
}

// IsSoft returns true if at least one Ace still counts as 11 in the total
func IsSoft(cards []deck.Card) bool {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}

	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}

	return aces > 0
}
