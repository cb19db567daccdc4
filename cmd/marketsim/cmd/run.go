package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/marketsim/backtest"
	"github.com/rustyeddy/marketsim/config"
	"github.com/rustyeddy/marketsim/internal/dbg"
	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
	"github.com/rustyeddy/marketsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a config file",
	Long: `Run one simulation using settings from a configuration file.

The config file selects the bar source (regime process or order flow),
trading engine parameters, the strategy, and an optional journal.

Example:
  marketsim run -f examples/configs/basic.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	res, err := executeRun(cmd.Context(), cfg, cfg.Market.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("Run complete (%s, seed %d):\n", cfg.Strategy.Name, cfg.Market.Seed)
	fmt.Printf("  Bars:         %d\n", res.Bars)
	fmt.Printf("  Trades:       %d (%d wins / %d losses, %d liquidations)\n",
		res.Trades, res.Wins, res.Losses, res.Liquidations)
	fmt.Printf("  Win rate:     %.1f%%\n", res.WinRate*100)
	fmt.Printf("  Balance:      %.2f\n", res.Balance)
	fmt.Printf("  Net profit:   %.2f\n", res.NetProfit)
	fmt.Printf("  Fees:         %.2f\n", res.Fees)
	fmt.Printf("  Max drawdown: %.1f%%\n", res.MaxDrawdown*100)
	fmt.Printf("  Exposure:     %.1f%%\n", res.Exposure*100)
	return nil
}

// executeRun assembles one full simulation instance from cfg with the given
// seed and runs it to completion.
func executeRun(ctx context.Context, cfg *config.Config, seed int64) (backtest.Result, error) {
	var source backtest.BarSource
	switch cfg.Market.Source {
	case "flow":
		fc := cfg.FlowConfig()
		fc.Seed = seed
		fs, err := market.NewFlowSimulator(fc)
		if err != nil {
			return backtest.Result{}, fmt.Errorf("flow simulator: %w", err)
		}
		source = backtest.NewFlowSource(fs, cfg.Run.Bars)
	default:
		mc := cfg.MarketConfig()
		mc.Seed = seed
		ms, err := market.NewSimulator(mc)
		if err != nil {
			return backtest.Result{}, fmt.Errorf("simulator: %w", err)
		}
		source = backtest.NewSimSource(ms, cfg.Run.Bars)
	}

	engine, err := sim.NewEngine(cfg.EngineConfig())
	if err != nil {
		return backtest.Result{}, fmt.Errorf("engine: %w", err)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name)
	if err != nil {
		return backtest.Result{}, err
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return backtest.Result{}, fmt.Errorf("journal: %w", err)
	}
	defer jnl.Close()

	log := dbg.NewLogger(cfg.Run.Verbose)
	defer log.Sync()

	r := &backtest.Runner{
		Engine:   engine,
		Source:   source,
		Strategy: strat,
		Options: backtest.Options{
			CloseEnd: cfg.Run.CloseEnd,
			Journal:  jnl,
			Logger:   log,
		},
	}
	return r.Run(ctx)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
