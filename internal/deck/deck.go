package deck

import (
	rand "math/rand/v2"

	"github.com/lox/gesturejack/internal/randutil"
)

// Deck represents a single 52-card deck. A deck belongs to exactly one
// round; it is consumed by dealing and never refilled.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard 52-card deck seeded from the current time
func New() *Deck {
	return build(randutil.TimeSeeded())
}

// NewWithSeed creates a standard 52-card deck with a deterministic
// shuffle source, for reproducible rounds in tests and simulations.
func NewWithSeed(seed int64) *Deck {
	return build(randutil.New(seed))
}

func build(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	return d
}

// Shuffle randomizes the order of cards using a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Stack places the given cards on top of the deck in order, so the first
// card passed is the next one dealt. Used by tests to set up exact hands.
func (d *Deck) Stack(cards ...Card) {
	d.cards = append(append(make([]Card, 0, len(cards)+len(d.cards)), cards...), d.cards...)
}
