// Package pfls implements the Perun Funds Lock Script: the predicate that
// guards every cell holding a channel's collateral (native capacity, or a
// SUDT asset) while it sits outside the channel cell itself. PFLS defers
// entirely to PCTS for whether a spend is legitimate — its only job is
// proving that the PCTS cell this funding cell belongs to is actually part
// of the same transaction, so PCTS gets a chance to apply its own rules.
package pfls

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
	"github.com/perun-network/perun-ckb-core/perunlog"
)

var log = perunlog.Logger(perunlog.SubsystemPFLS)

// Validate checks that at least one of the transaction's inputs carries a
// type script whose hash equals this funding cell's declared PCTS script
// hash.
func Validate(ctx ledger.TxContext) error {
	args := ctx.Args()
	pfls, err := perunchannel.DecodePFLSArgs(args)
	if err != nil {
		return err
	}

	for i := 0; ; i++ {
		cell, err := ctx.Input(i)
		if err == ledger.ErrIndexOutOfBound {
			break
		}
		if err != nil {
			return err
		}
		if cell.Type == nil {
			continue
		}
		if ctx.ScriptHash(*cell.Type) == pfls.PCTSScriptHash {
			log.Debugf("input %d carries the owning channel's type script", i)
			return nil
		}
	}
	return perunerr.Wrap(perunerr.PCTSNotFound, "no transaction input carries the declared pcts type script")
}
