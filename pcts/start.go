package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// funderIndexStart is the party responsible for a channel's initial
// collateral: the channel's opener always funds its own Start transition
// before inviting the counterparty to Fund.
const funderIndexStart = 0

// checkValidStart enforces every rule a transaction creating a new channel
// cell (no group input, a channel cell at the group output) must satisfy.
func checkValidStart(ctx ledger.TxContext, c perunchannel.ChannelConstants, out ledger.Cell, pctsScriptHash ledger.Hash) error {
	if err := verifyThreadTokenIntegrity(ctx, c.ThreadToken); err != nil {
		return err
	}
	status, err := perunchannel.DecodeChannelStatus(out.Data)
	if err != nil {
		return err
	}
	if err := verifyChannelIDIntegrity(c.Params, status.State.ChannelID); err != nil {
		return err
	}
	if err := verifyValidLockScript(out, c); err != nil {
		return err
	}
	if err := verifyDifferentPaymentAddresses(c); err != nil {
		return err
	}
	if err := verifyNoFundsInInputs(ctx, c); err != nil {
		return err
	}
	if err := verifyValidStateAsStart(status.State, c); err != nil {
		return err
	}
	if err := verifyFundingInOutputs(ctx, funderIndexStart, status.State.Balances, c, pctsScriptHash); err != nil {
		return err
	}
	if err := verifyFundedStatus(status, true); err != nil {
		return err
	}
	return verifyStatusNotDisputed(status)
}

// verifyThreadTokenIntegrity requires that the channel's thread token's
// pinned out point is spent as one of this transaction's inputs — the same
// exclusivity guarantee a UTXO input gives, just re-derived here since the
// thread token is carried as a value inside the script args rather than as
// an implicit part of the cell model.
func verifyThreadTokenIntegrity(ctx ledger.TxContext, token perunchannel.ChannelToken) error {
	for i := 0; ; i++ {
		cell, err := ctx.Input(i)
		if err == ledger.ErrIndexOutOfBound {
			return perunerr.Wrap(perunerr.InvalidThreadToken, "thread token out point not found among transaction inputs")
		}
		if err != nil {
			return err
		}
		if cell.PrevOut.Equal(token.OutPoint) {
			return nil
		}
	}
}
