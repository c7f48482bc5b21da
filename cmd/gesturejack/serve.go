package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lox/gesturejack/cmd/gesturejack/shared"
	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/server"
	"github.com/lox/gesturejack/internal/settings"
)

// ServeCmd runs the WebSocket server browser clients connect to
type ServeCmd struct {
	Config string `kong:"default='gesturejack.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	// .env is optional; environment overrides beat the config file
	_ = godotenv.Load()

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLoggerWithLevel(cfg.Server.LogLevel)
	if c.Debug {
		logger = shared.SetupLogger(true)
	}

	addr := cfg.GetServerAddress()
	if env := os.Getenv("GESTUREJACK_ADDR"); env != "" {
		addr = env
	}
	if c.Addr != "" {
		addr = c.Addr
	}

	settingsPath := cfg.Server.SettingsFile
	if env := os.Getenv("GESTUREJACK_SETTINGS"); env != "" {
		settingsPath = env
	}

	store, err := settings.LoadStore(settingsPath)
	if err != nil {
		return err
	}

	srv := server.NewServer(addr, logger, store, server.WithTableOptions(
		game.WithStartingBalance(cfg.Table.StartingBalance),
		game.WithMinimumBet(cfg.Table.MinimumBet),
		game.WithDealDelay(cfg.Table.DealDelay()),
	))

	logger.Info("Starting gesturejack server",
		"addr", addr,
		"starting_balance", cfg.Table.StartingBalance,
		"minimum_bet", cfg.Table.MinimumBet,
		"deal_delay", cfg.Table.DealDelay(),
		"settings_file", settingsPath)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return srv.Serve(ctx)
}
