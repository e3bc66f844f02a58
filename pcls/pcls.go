// Package pcls implements the Perun Channel Lock Script: the predicate that
// gates every spend of a channel cell. Its rule is deliberately narrow —
// it never inspects balances, versions, or witnesses, and trusts PCTS's type
// script to have already enforced everything about *how* the channel cell
// may change. PCLS only answers one question: did one of the two
// participants actually authorize this transaction, by having their own
// unlock script among the transaction's inputs?
package pcls

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
	"github.com/perun-network/perun-ckb-core/perunlog"
)

var log = perunlog.Logger(perunlog.SubsystemPCLS)

// Validate checks that PCLS was invoked with no args of its own — it carries
// no configuration, only the channel cell's type script (PCTS) does — and
// that at least one of the transaction's input cells is locked by either
// participant's declared unlock script, proving that participant consented
// to this transaction. The participants' unlock script hashes come from the
// ChannelConstants embedded in the channel cell's own type script args,
// reached through the group input PCLS is itself locking.
func Validate(ctx ledger.TxContext) error {
	if args := ctx.Args(); len(args) != 0 {
		return perunerr.Wrap(perunerr.PCLSWithArgs, "pcls script carries %d bytes of args, want none", len(args))
	}

	channelCell, ok, err := ctx.GroupInput()
	if err != nil {
		return err
	}
	if !ok {
		return perunerr.Wrap(perunerr.ItemMissing, "pcls has no group input to read channel constants from")
	}
	if channelCell.Type == nil {
		return perunerr.Wrap(perunerr.ItemMissing, "channel cell carries no type script")
	}
	c, err := perunchannel.DecodeChannelConstants(channelCell.Type.Args)
	if err != nil {
		return err
	}
	params := c.Params

	wantA := params.PartyA.UnlockScriptHash
	wantB := params.PartyB.UnlockScriptHash

	for i := 0; ; i++ {
		cell, err := ctx.Input(i)
		if err == ledger.ErrIndexOutOfBound {
			break
		}
		if err != nil {
			return err
		}
		lockHash := ctx.ScriptHash(cell.Lock)
		if lockHash == wantA || lockHash == wantB {
			log.Debugf("input %d authorizes channel spend", i)
			return nil
		}
	}
	return perunerr.Wrap(perunerr.NotParticipant, "no transaction input is locked by either participant's unlock script")
}
