package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/gesturejack/cmd/gesturejack/shared"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
	"github.com/lox/gesturejack/internal/settings"
	"github.com/lox/gesturejack/internal/tui"
)

// PlayCmd runs a local game in the terminal. Keyboard only by default;
// --demo replays scripted gestures through the hold pipeline so the
// progress indicator can be seen without a camera.
type PlayCmd struct {
	Balance     int    `kong:"default='1000',help='Starting balance'"`
	MinBet      int    `kong:"default='1',help='Minimum bet'"`
	DealDelayMs int    `kong:"default='400',help='Presentation delay between dealt cards in milliseconds'"`
	Settings    string `kong:"default='gestures.hcl',help='Path to gesture settings file'"`
	Demo        bool   `kong:"help='Replay scripted gestures through the hold pipeline'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	store, err := settings.LoadStore(c.Settings)
	if err != nil {
		return err
	}

	table := game.NewTable(logger,
		game.WithStartingBalance(c.Balance),
		game.WithMinimumBet(c.MinBet),
		game.WithDealDelay(time.Duration(c.DealDelayMs)*time.Millisecond),
	)

	model := tui.NewModel(logger, table, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.Demo {
		pipeline := demoPipeline(logger, table, store)
		model.AttachPipeline(pipeline)
		go func() {
			if err := pipeline.Run(ctx); err != nil {
				logger.Error("demo pipeline stopped", "error", err)
			}
		}()
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// demoPipeline builds a pipeline over a scripted recognizer that
// alternates held hit and stand gestures, with gaps long enough for each
// cooldown to clear.
func demoPipeline(logger *log.Logger, table *game.Table, store *settings.Store) *gesture.Pipeline {
	cfg := store.Get()

	holdTicks := int(cfg.HoldTime()/gesture.DefaultSampleInterval) + 2
	gapTicks := int(cfg.Cooldown()/gesture.DefaultSampleInterval) + 2

	var script []*gesture.Sample
	for cycle := 0; cycle < 50; cycle++ {
		for _, label := range []string{cfg.HitGesture, cfg.StandGesture} {
			for i := 0; i < holdTicks; i++ {
				script = append(script, &gesture.Sample{Name: label, Confidence: 0.95})
			}
			for i := 0; i < gapTicks; i++ {
				script = append(script, nil)
			}
		}
	}

	rec := gesture.NewScripted(script...)
	dispatcher := gesture.NewDispatcher(logger, table, store)
	return gesture.NewPipeline(logger, rec, store, func(tr gesture.Trigger) {
		dispatcher.HandleTrigger(tr)
	})
}
