// Package game implements the blackjack round state machine: betting,
// dealing, the player turn, the dealer's fixed draw policy and settlement.
//
// A Table owns the deck, both hands, the balance and the cumulative
// session statistics. All mutating operations are guarded no-ops when
// called outside their legal phase, so duplicate or racing triggers from
// the gesture pipeline and a manual UI cannot corrupt the round.
package game
