// Package journal persists simulation output: closed trades and per-bar
// equity snapshots. Backends share one record schema keyed by bar index, the
// simulation's only notion of time.
package journal

import "github.com/rustyeddy/marketsim/sim"

// TradeRecord is one closed trade as persisted.
type TradeRecord struct {
	TradeID    string
	Side       string
	Size       float64
	EntryPrice float64
	ExitPrice  float64
	EntryBar   int
	ExitBar    int
	Pnl        float64
	Fees       float64
	Net        float64
	Reason     string
}

// EquitySnapshot is the account state sampled at a bar close.
type EquitySnapshot struct {
	Bar     int
	Balance float64
	Equity  float64
	Fees    float64
}

// Journal records simulation output. Implementations are not safe for
// concurrent use; each simulation instance owns its journal.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// FromClosedTrade converts an engine ledger entry to its persisted form.
func FromClosedTrade(tr sim.ClosedTrade) TradeRecord {
	return TradeRecord{
		TradeID:    tr.ID,
		Side:       tr.Side.String(),
		Size:       tr.Size,
		EntryPrice: tr.EntryPrice,
		ExitPrice:  tr.ExitPrice,
		EntryBar:   tr.EntryBar,
		ExitBar:    tr.ExitBar,
		Pnl:        tr.Pnl,
		Fees:       tr.Fees,
		Net:        tr.Net,
		Reason:     tr.Reason.String(),
	}
}

// Nop discards everything. Used when a run has no journal configured.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
