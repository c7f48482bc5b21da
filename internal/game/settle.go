package game

// Result is the outcome of a settled round from the player's perspective
type Result string

const (
	ResultNone      Result = ""
	ResultWin       Result = "win"
	ResultBlackjack Result = "blackjack"
	ResultLoss      Result = "loss"
	ResultPush      Result = "push"
)

// IsWin returns true for any winning outcome
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// decideOutcome applies the settlement rules to two final hands and
// returns the result plus the amount returned to the balance. The bet was
// debited at deal time, so a payout of 0 is a full loss, bet is a push
// and 2*bet is an even-money win. A natural pays 3:2 (bet*5/2 total).
//
// The function is pure: calling it twice on the same hands yields the
// same outcome, which keeps settlement idempotent by construction.
func decideOutcome(player, dealer *Hand, bet int) (Result, int) {
	playerScore := player.Score()
	dealerScore := dealer.Score()

	switch {
	case playerScore > 21:
		return ResultLoss, 0
	case player.IsBlackjack() && dealer.IsBlackjack():
		return ResultPush, bet
	case player.IsBlackjack():
		return ResultBlackjack, bet * 5 / 2
	case dealer.IsBlackjack():
		return ResultLoss, 0
	case dealerScore > 21:
		return ResultWin, bet * 2
	case playerScore > dealerScore:
		return ResultWin, bet * 2
	case playerScore < dealerScore:
		return ResultLoss, 0
	default:
		return ResultPush, bet
	}
}
