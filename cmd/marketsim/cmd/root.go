package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketsim",
	Short: "A deterministic market and trading simulator",
	Long: `Marketsim is a seedable market simulation toolkit written in Go.

It provides:
  - Regime-switching synthetic OHLCV generation with volatility clustering
  - An order-flow simulator driving a limit order book
  - A margin/leverage position engine with stops, targets and liquidation
  - Drawdown-throttled, Kelly-capped position sizing
  - Strategy backtests journaled to CSV or SQLite

Identical seed and configuration always reproduce the identical run.`,
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}
