package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address      string `hcl:"address,optional"`
	Port         int    `hcl:"port,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	LogFile      string `hcl:"log_file,optional"`
	SettingsFile string `hcl:"settings_file,optional"`
}

// TableSettings defines the blackjack table every session gets
type TableSettings struct {
	StartingBalance int `hcl:"starting_balance,optional"`
	MinimumBet      int `hcl:"minimum_bet,optional"`
	DealDelayMs     int `hcl:"deal_delay_ms,optional"`
}

// DealDelay returns the presentation pacing delay
func (t TableSettings) DealDelay() time.Duration {
	return time.Duration(t.DealDelayMs) * time.Millisecond
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:      "localhost",
			Port:         8080,
			LogLevel:     "info",
			SettingsFile: "gestures.hcl",
		},
		Table: TableSettings{
			StartingBalance: 1000,
			MinimumBet:      1,
			DealDelayMs:     400,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.SettingsFile == "" {
		config.Server.SettingsFile = defaults.Server.SettingsFile
	}
	if config.Table.StartingBalance == 0 {
		config.Table.StartingBalance = defaults.Table.StartingBalance
	}
	if config.Table.MinimumBet == 0 {
		config.Table.MinimumBet = defaults.Table.MinimumBet
	}
	if config.Table.DealDelayMs == 0 {
		config.Table.DealDelayMs = defaults.Table.DealDelayMs
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive, got %d", c.Table.StartingBalance)
	}
	if c.Table.MinimumBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %d", c.Table.MinimumBet)
	}
	if c.Table.MinimumBet > c.Table.StartingBalance {
		return fmt.Errorf("minimum bet %d exceeds starting balance %d", c.Table.MinimumBet, c.Table.StartingBalance)
	}
	if c.Table.DealDelayMs < 0 {
		return fmt.Errorf("deal delay must not be negative, got %dms", c.Table.DealDelayMs)
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
