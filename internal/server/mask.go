package server

import "github.com/lox/gesturejack/internal/game"

// MaskSnapshot strips the dealer's hole card from a snapshot before it
// crosses the trust boundary to a client. While the hole card is face
// down only the upcard is sent and the dealer score reflects visible
// cards only. Once the dealer is revealed the snapshot passes through
// unchanged.
func MaskSnapshot(s game.Snapshot) game.Snapshot {
	if s.DealerRevealed || len(s.Dealer) < 2 {
		return s
	}

	visible := s.Dealer[:1:1]
	s.Dealer = visible
	s.DealerScore = game.Score(visible)
	return s
}
