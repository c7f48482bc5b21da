package main

import (
	"time"

	"github.com/lox/gesturejack/cmd/gesturejack/shared"
	"github.com/lox/gesturejack/internal/deck"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
	"github.com/lox/gesturejack/internal/randutil"
	"github.com/lox/gesturejack/internal/settings"
)

// SimulateCmd plays rounds headlessly with a fixed strategy. Actions go
// through the gesture dispatcher so the same guard rules apply as in
// live play.
type SimulateCmd struct {
	Rounds  int    `kong:"default='100',help='Number of rounds to play'"`
	Bet     int    `kong:"default='10',help='Bet per round'"`
	Balance int    `kong:"default='1000',help='Starting balance'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	}
	rng := randutil.New(seed)

	table := game.NewTable(logger,
		game.WithStartingBalance(c.Balance),
		game.WithDealDelay(0),
		game.WithDeckFactory(func() *deck.Deck {
			d := deck.NewWithSeed(int64(rng.Uint64()))
			d.Shuffle()
			return d
		}),
	)

	store, err := settings.NewStore(settings.Default())
	if err != nil {
		return err
	}
	dispatcher := gesture.NewDispatcher(logger, table, store)
	binds := store.Get()

	for i := 0; i < c.Rounds; i++ {
		table.Deal(c.Bet)

		// dealer strategy for the player too: hit below 17
		for table.Phase() == game.PhasePlaying {
			snap := table.Snapshot()
			label := binds.StandGesture
			if snap.PlayerScore < 17 {
				label = binds.HitGesture
			}
			dispatcher.HandleTrigger(gesture.Trigger{Label: label, At: time.Now()})
		}

		if table.Phase() != game.PhaseGameOver {
			break
		}
		table.NextRound()
		if table.Snapshot().OutOfFunds {
			logger.Warn("Out of funds", "round", i+1)
			break
		}
	}

	snap := table.Snapshot()
	logger.Info("Simulation complete",
		"rounds", snap.Stats.HandsPlayed,
		"won", snap.Stats.HandsWon,
		"net", snap.Stats.NetWinnings,
		"best_streak", snap.Stats.BestStreak,
		"balance", snap.Balance)

	return nil
}
