// Package pcts implements the Perun Channel Type Script: the predicate that
// guards every transition of a channel cell's state machine (Start,
// Progress via Fund or Dispute, Close via Close, ForceClose, or Abort). It
// is the single authority responsible for enforcing that money only ever
// moves according to the two parties' signed agreement or an uncontested
// dispute timeout.
package pcts

import (
	"bytes"

	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

func verifyChannelIDIntegrity(params perunchannel.ChannelParameters, wantID ledger.Hash) error {
	id, err := params.ChannelID()
	if err != nil {
		return err
	}
	if id != wantID {
		return perunerr.Wrap(perunerr.ChannelIdMismatch, "channel id %x does not match params hash %x", wantID, id)
	}
	return nil
}

func verifyEqualChannelID(a, b ledger.Hash) error {
	if a != b {
		return perunerr.Wrap(perunerr.ChannelIdMismatch, "channel id mismatch: %x != %x", a, b)
	}
	return nil
}

func verifyDifferentPaymentAddresses(c perunchannel.ChannelConstants) error {
	if c.Params.PartyA.PaymentScriptHash == c.Params.PartyB.PaymentScriptHash {
		return perunerr.Wrap(perunerr.SamePaymentAddress, "both parties share payment script hash %x", c.Params.PartyA.PaymentScriptHash)
	}
	return nil
}

// verifyNoFundsInInputs rejects a Start transaction that spends a cell
// already locked by this channel's PFLS — funding only ever happens through
// the Fund witness, on an already-existing channel cell, never folded into
// Start.
func verifyNoFundsInInputs(ctx ledger.TxContext, c perunchannel.ChannelConstants) error {
	for i := 0; ; i++ {
		cell, err := ctx.Input(i)
		if err == ledger.ErrIndexOutOfBound {
			return nil
		}
		if err != nil {
			return err
		}
		if cell.Lock.CodeHash == c.PFLSCodeHash && cell.Lock.HashType == ledger.HashType(c.PFLSHashType) {
			return perunerr.Wrap(perunerr.FundsInInputs, "input %d already locked by this channel's funds lock", i)
		}
	}
}

func verifyValidLockScript(out ledger.Cell, c perunchannel.ChannelConstants) error {
	if out.Lock.CodeHash != c.PCLSCodeHash {
		return perunerr.Wrap(perunerr.InvalidPCLSCodeHash, "channel output lock code hash %x != expected %x", out.Lock.CodeHash, c.PCLSCodeHash)
	}
	if out.Lock.HashType != ledger.HashType(c.PCLSHashType) {
		return perunerr.Wrap(perunerr.InvalidPCLSHashType, "channel output lock hash type %d != expected %d", out.Lock.HashType, c.PCLSHashType)
	}
	if len(out.Lock.Args) != 0 {
		return perunerr.Wrap(perunerr.PCLSWithArgs, "channel output lock script carries %d bytes of args, want none", len(out.Lock.Args))
	}
	return nil
}

func verifyStatusNotDisputed(s perunchannel.ChannelStatus) error {
	if s.Disputed {
		return perunerr.Wrap(perunerr.StatusDisputed, "channel already disputed")
	}
	return nil
}

func verifyStatusDisputed(s perunchannel.ChannelStatus) error {
	if !s.Disputed {
		return perunerr.Wrap(perunerr.StatusNotDisputed, "channel is not disputed")
	}
	return nil
}

func verifyStatusFunded(s perunchannel.ChannelStatus) error {
	if !s.Funded {
		return perunerr.Wrap(perunerr.ChannelNotFunded, "channel is not funded")
	}
	return nil
}

func verifyStatusNotFunded(s perunchannel.ChannelStatus) error {
	if s.Funded {
		return perunerr.Wrap(perunerr.StateIsFunded, "channel is already funded")
	}
	return nil
}

func verifyEqualChannelState(a, b perunchannel.ChannelState) error {
	if !a.Equal(b) {
		return perunerr.Wrap(perunerr.ChannelStateNotEqual, "channel state changed across a Fund transition")
	}
	return nil
}

func verifyChannelContinuesLocked(in, out ledger.Cell) error {
	if !in.Lock.Equal(out.Lock) {
		return perunerr.Wrap(perunerr.ChannelDoesNotContinue, "channel output lock script differs from input")
	}
	return nil
}

// verifyIncreasingVersionNumber allows the zero-to-zero concession exactly
// once, on a never-yet-disputed channel whose new state is not itself final
// (a final state must go through Close, never linger as a disputable
// version-0 state) — otherwise requires a strictly increasing version.
func verifyIncreasingVersionNumber(old, new perunchannel.ChannelStatus) error {
	concession := !old.Disputed && old.State.Version == 0 && new.State.Version == 0 && !new.State.IsFinal
	if concession {
		return nil
	}
	if old.State.Version >= new.State.Version {
		return perunerr.Wrap(perunerr.VersionNumberNotIncreasing, "version %d does not increase to %d", old.State.Version, new.State.Version)
	}
	return nil
}

func verifyEqualSumOfBalances(old, new perunchannel.Balances) error {
	eq, err := old.SumEqual(new)
	if err != nil {
		return err
	}
	if !eq {
		return perunerr.Wrap(perunerr.SumOfBalancesNotEqual, "balance sums differ across transition")
	}
	return nil
}

func verifyStateNotFinalized(s perunchannel.ChannelState) error {
	if s.IsFinal {
		return perunerr.Wrap(perunerr.StateIsFinal, "state is already final")
	}
	return nil
}

func verifyStateFinalized(s perunchannel.ChannelState) error {
	if !s.IsFinal {
		return perunerr.Wrap(perunerr.StateNotFinal, "state is not final")
	}
	return nil
}

func verifyChannelStateProgression(old, new perunchannel.ChannelState) error {
	if err := verifyEqualChannelID(old.ChannelID, new.ChannelID); err != nil {
		return err
	}
	oldStatus := perunchannel.ChannelStatus{State: old}
	newStatus := perunchannel.ChannelStatus{State: new}
	if err := verifyIncreasingVersionNumber(oldStatus, newStatus); err != nil {
		return err
	}
	if err := verifyEqualSumOfBalances(old.Balances, new.Balances); err != nil {
		return err
	}
	return verifyStateNotFinalized(old)
}

// verifyValidStateAsStart enforces the constraints a Start transaction's
// embedded state must satisfy: version 0, not final, and every nonzero
// balance already above the funding lock's minimum cell capacity (so the
// later Fund transition can actually house it).
func verifyValidStateAsStart(state perunchannel.ChannelState, c perunchannel.ChannelConstants) error {
	if state.Version != 0 {
		return perunerr.Wrap(perunerr.StartWithNonZeroVersion, "start state has version %d, want 0", state.Version)
	}
	if state.IsFinal {
		return perunerr.Wrap(perunerr.StartWithFinalizedState, "start state is marked final")
	}
	for _, v := range state.Balances.CKBytes {
		if v != 0 && v < c.PFLSMinCapacity {
			return perunerr.Wrap(perunerr.BalanceBelowPFLSMinCapacity, "balance %d below funds lock minimum capacity %d", v, c.PFLSMinCapacity)
		}
	}
	return nil
}

// verifyFundedStatus enforces the funded bit's meaning: on Start it must
// equal whether party B's entire share, across every asset, is already
// zero (a channel that never needs party B's contribution is funded the
// instant it exists); on every later transition it must simply remain true.
func verifyFundedStatus(status perunchannel.ChannelStatus, isStart bool) error {
	if !isStart {
		if !status.Funded {
			return perunerr.Wrap(perunerr.FundedBitStatusNotCorrect, "funded bit must stay true once set")
		}
		return nil
	}
	wantFunded := status.State.Balances.CKBytes[1] == 0
	for _, s := range status.State.Balances.SUDTs {
		if s.Distribution[1].Cmp(perunchannel.U128{}) != 0 {
			wantFunded = false
		}
	}
	if status.Funded != wantFunded {
		return perunerr.Wrap(perunerr.FundedBitStatusNotCorrect, "funded bit %v does not match party B's zero contribution %v", status.Funded, wantFunded)
	}
	return nil
}

func scriptsEqual(a, b ledger.Script) bool {
	return bytes.Equal(a.CodeHash[:], b.CodeHash[:]) && a.HashType == b.HashType && bytes.Equal(a.Args, b.Args)
}
