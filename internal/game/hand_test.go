package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/gesturejack/internal/deck"
)

func cardsOf(ranks ...deck.Rank) []deck.Card {
	out := make([]deck.Card, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, deck.NewCard(deck.Spades, r))
	}
	return out
}

func TestScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		ranks []deck.Rank
		score int
	}{
		{"empty hand", nil, 0},
		{"face cards", []deck.Rank{deck.King, deck.Queen}, 20},
		{"natural blackjack", []deck.Rank{deck.Ace, deck.King}, 21},
		{"two aces", []deck.Rank{deck.Ace, deck.Ace}, 12},
		{"double ace reduction", []deck.Rank{deck.Ace, deck.Ace, deck.Nine}, 21},
		{"hard bust", []deck.Rank{deck.Nine, deck.Nine, deck.Nine}, 27},
		{"soft seventeen", []deck.Rank{deck.Ace, deck.Six}, 17},
		{"ace forced hard", []deck.Rank{deck.Ace, deck.Nine, deck.Five}, 15},
		{"ten and face", []deck.Rank{deck.Ten, deck.Jack}, 20},
		{"five card charlie territory", []deck.Rank{deck.Two, deck.Three, deck.Four, deck.Five, deck.Six}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, Score(cardsOf(tt.ranks...)))
		})
	}
}

func TestIsSoft(t *testing.T) {
	t.Parallel()
	assert.True(t, IsSoft(cardsOf(deck.Ace, deck.Six)), "A6 is soft 17")
	assert.False(t, IsSoft(cardsOf(deck.Ace, deck.Nine, deck.Five)), "A95 forces the ace to 1")
	assert.False(t, IsSoft(cardsOf(deck.King, deck.Seven)), "no ace, never soft")
	assert.True(t, IsSoft(cardsOf(deck.Ace, deck.Ace, deck.Five)), "one ace can stay at 11")
}

func TestHandPredicates(t *testing.T) {
	t.Parallel()

	var natural Hand
	natural.Add(deck.NewCard(deck.Hearts, deck.Ace))
	natural.Add(deck.NewCard(deck.Spades, deck.King))
	assert.True(t, natural.IsBlackjack())
	assert.False(t, natural.IsBust())

	var drawn21 Hand
	drawn21.Add(deck.NewCard(deck.Hearts, deck.Seven))
	drawn21.Add(deck.NewCard(deck.Spades, deck.Seven))
	drawn21.Add(deck.NewCard(deck.Clubs, deck.Seven))
	assert.Equal(t, 21, drawn21.Score())
	assert.False(t, drawn21.IsBlackjack(), "21 in three cards is not a natural")

	var bust Hand
	for _, r := range []deck.Rank{deck.Nine, deck.Nine, deck.Nine} {
		bust.Add(deck.NewCard(deck.Diamonds, r))
	}
	assert.True(t, bust.IsBust())
}

func TestHandCardsReturnsCopy(t *testing.T) {
	t.Parallel()
	var h Hand
	h.Add(deck.NewCard(deck.Spades, deck.Five))

	cards := h.Cards()
	cards[0] = deck.NewCard(deck.Hearts, deck.King)

	assert.Equal(t, deck.Five, h.Cards()[0].Rank, "mutating the copy must not affect the hand")
}
