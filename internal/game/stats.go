package game

// Stats tracks cumulative session statistics across rounds
type Stats struct {
	HandsPlayed   int `json:"handsPlayed"`
	HandsWon      int `json:"handsWon"`
	NetWinnings   int `json:"netWinnings"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

func (s *Stats) recordDeal() {
	s.HandsPlayed++
}

func (s *Stats) recordWin(net int) {
	s.HandsWon++
	s.NetWinnings += net
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
}

func (s *Stats) recordLoss(bet int) {
	s.NetWinnings -= bet
	s.CurrentStreak = 0
}

// A push leaves winnings and streaks untouched
func (s *Stats) recordPush() {}
