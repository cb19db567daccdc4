// Package config loads and validates run configuration for the simulation
// CLI. Files may be YAML or JSON; percent-valued fields are written as human
// percentages (2 means 2%) and converted to fractions when handed to the
// core packages.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
)

// Config is the complete run configuration.
type Config struct {
	Market   MarketConfig   `json:"market" yaml:"market"`
	Trading  TradingConfig  `json:"trading" yaml:"trading"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Run      RunConfig      `json:"run" yaml:"run"`
}

// MarketConfig selects and parameterizes the bar source.
type MarketConfig struct {
	// Source is "regime" (stochastic process simulator) or "flow"
	// (order-flow simulator driving the limit order book).
	Source string `json:"source" yaml:"source"`

	Seed          int64   `json:"seed" yaml:"seed"`
	StartPrice    float64 `json:"start_price" yaml:"start_price"`
	VolatilityPct float64 `json:"volatility_percent" yaml:"volatility_percent"`
	DriftBiasPct  float64 `json:"drift_bias_percent,omitempty" yaml:"drift_bias_percent,omitempty"`
	SwitchPct     float64 `json:"switch_percent,omitempty" yaml:"switch_percent,omitempty"`
	TickSize      float64 `json:"tick_size" yaml:"tick_size"`

	// Flow-source tuning; ignored for the regime source.
	OrderRate     float64 `json:"order_rate,omitempty" yaml:"order_rate,omitempty"`
	LiquidityRate float64 `json:"liquidity_rate,omitempty" yaml:"liquidity_rate,omitempty"`
	BookDepth     int     `json:"book_depth,omitempty" yaml:"book_depth,omitempty"`
	QtyPerLevel   float64 `json:"qty_per_level,omitempty" yaml:"qty_per_level,omitempty"`
}

// TradingConfig parameterizes the position engine.
type TradingConfig struct {
	Mode            string  `json:"mode" yaml:"mode"` // "spot" or "futures"
	Leverage        float64 `json:"leverage,omitempty" yaml:"leverage,omitempty"`
	Balance         float64 `json:"balance" yaml:"balance"`
	TakerFeePct     float64 `json:"taker_fee_percent" yaml:"taker_fee_percent"`
	SlippagePct     float64 `json:"slippage_percent" yaml:"slippage_percent"`
	ImpactCoeff     float64 `json:"impact_coeff,omitempty" yaml:"impact_coeff,omitempty"`
	MaintenancePct  float64 `json:"maintenance_percent,omitempty" yaml:"maintenance_percent,omitempty"`
	StopPct         float64 `json:"stop_percent,omitempty" yaml:"stop_percent,omitempty"`
	TargetPct       float64 `json:"target_percent,omitempty" yaml:"target_percent,omitempty"`
	TrailPct        float64 `json:"trail_percent,omitempty" yaml:"trail_percent,omitempty"`
	PartialFillRate float64 `json:"partial_fill_ratio,omitempty" yaml:"partial_fill_ratio,omitempty"`
}

// StrategyConfig names the strategy; parameters beyond the defaults are set
// in code.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`
}

// JournalConfig selects the journal backend. An empty type disables
// journaling.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RunConfig bounds the run.
type RunConfig struct {
	Bars     int  `json:"bars" yaml:"bars"`
	CloseEnd bool `json:"close_end" yaml:"close_end"`
	Verbose  bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// LoadFromFile loads a configuration, YAML first with a JSON fallback, and
// validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before any simulation starts.
func (c *Config) Validate() error {
	switch c.Market.Source {
	case "regime", "flow":
	default:
		return fmt.Errorf("market.source must be 'regime' or 'flow', got %q", c.Market.Source)
	}
	if c.Market.StartPrice <= 0 {
		return fmt.Errorf("market.start_price must be positive")
	}
	if c.Market.VolatilityPct <= 0 {
		return fmt.Errorf("market.volatility_percent must be positive")
	}
	if c.Market.TickSize <= 0 {
		return fmt.Errorf("market.tick_size must be positive")
	}

	switch c.Trading.Mode {
	case "spot":
	case "futures":
		if c.Trading.Leverage < 1 {
			return fmt.Errorf("trading.leverage must be >= 1 for futures")
		}
	default:
		return fmt.Errorf("trading.mode must be 'spot' or 'futures', got %q", c.Trading.Mode)
	}
	if c.Trading.Balance <= 0 {
		return fmt.Errorf("trading.balance must be positive")
	}
	if c.Trading.TakerFeePct < 0 || c.Trading.SlippagePct < 0 {
		return fmt.Errorf("trading fees and slippage must not be negative")
	}

	switch c.Journal.Type {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be empty, 'csv' or 'sqlite', got %q", c.Journal.Type)
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal trades_file and equity_file required for csv")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for sqlite")
	}

	if c.Run.Bars <= 0 {
		return fmt.Errorf("run.bars must be positive")
	}
	return nil
}

// MarketConfig converts to the core simulator configuration. Percent fields
// become fractions here.
func (c *Config) MarketConfig() market.Config {
	return market.Config{
		Seed:       c.Market.Seed,
		StartPrice: c.Market.StartPrice,
		BaseVol:    c.Market.VolatilityPct / 100,
		DriftBias:  c.Market.DriftBiasPct / 100,
		SwitchProb: c.Market.SwitchPct / 100,
		TickSize:   c.Market.TickSize,
	}
}

// FlowConfig converts to the order-flow simulator configuration.
func (c *Config) FlowConfig() market.FlowConfig {
	fc := market.FlowConfig{
		Seed:          c.Market.Seed,
		StartPrice:    c.Market.StartPrice,
		TickSize:      c.Market.TickSize,
		BaseVol:       c.Market.VolatilityPct / 100,
		OrderRate:     c.Market.OrderRate,
		LiquidityRate: c.Market.LiquidityRate,
		BookDepth:     c.Market.BookDepth,
		QtyPerLevel:   c.Market.QtyPerLevel,
	}
	return fc
}

// EngineConfig converts to the trading engine configuration.
func (c *Config) EngineConfig() sim.Config {
	mode := sim.Spot
	if c.Trading.Mode == "futures" {
		mode = sim.Futures
	}
	return sim.Config{
		Mode:             mode,
		Leverage:         c.Trading.Leverage,
		TakerFee:         c.Trading.TakerFeePct / 100,
		Slippage:         c.Trading.SlippagePct / 100,
		ImpactCoeff:      c.Trading.ImpactCoeff,
		MaintenanceRate:  c.Trading.MaintenancePct / 100,
		StartBalance:     c.Trading.Balance,
		DefaultStopPct:   c.Trading.StopPct / 100,
		DefaultTargetPct: c.Trading.TargetPct / 100,
		DefaultTrailPct:  c.Trading.TrailPct / 100,
		PartialFillRatio: c.Trading.PartialFillRate,
	}
}

// Default returns a configuration with workable defaults: a futures account
// trading the regime simulator with moderate costs.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			Source:        "regime",
			Seed:          42,
			StartPrice:    100,
			VolatilityPct: 2,
			SwitchPct:     5,
			TickSize:      0.01,
			OrderRate:     40,
			LiquidityRate: 8,
			BookDepth:     24,
			QtyPerLevel:   60,
		},
		Trading: TradingConfig{
			Mode:           "futures",
			Leverage:       10,
			Balance:        10000,
			TakerFeePct:    0.04,
			SlippagePct:    0.05,
			MaintenancePct: 0.5,
			StopPct:        2,
			TargetPct:      4,
		},
		Strategy: StrategyConfig{Name: "sma-cross"},
		Run: RunConfig{
			Bars:     1000,
			CloseEnd: true,
		},
	}
}
