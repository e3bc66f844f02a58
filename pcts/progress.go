package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/peruncrypto"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// funderIndexFund is the party responsible for collateral added during a
// Fund transition: the counterparty who did not fund at Start.
const funderIndexFund = 1

// checkValidProgress enforces the rules common to every Progress transition
// (a channel cell at both the group input and output) and then dispatches
// on the witness variant.
func checkValidProgress(ctx ledger.TxContext, c perunchannel.ChannelConstants, in, out ledger.Cell, pctsScriptHash ledger.Hash) error {
	oldStatus, err := perunchannel.DecodeChannelStatus(in.Data)
	if err != nil {
		return err
	}
	newStatus, err := perunchannel.DecodeChannelStatus(out.Data)
	if err != nil {
		return err
	}
	if err := verifyEqualChannelID(oldStatus.State.ChannelID, newStatus.State.ChannelID); err != nil {
		return err
	}
	if err := verifyNoFundsInInputs(ctx, c); err != nil {
		return err
	}
	if err := verifyChannelContinuesLocked(in, out); err != nil {
		return err
	}

	witness, err := ctx.Witness()
	if err != nil {
		return err
	}

	switch witness.Kind {
	case perunchannel.WitnessFund:
		return checkFund(ctx, c, oldStatus, newStatus, pctsScriptHash)
	case perunchannel.WitnessDispute:
		return checkDispute(c, oldStatus, newStatus, witness)
	case perunchannel.WitnessClose:
		return perunerr.Wrap(perunerr.ChannelCloseWithChannelOutput, "close witness supplied for a transaction with a channel output")
	case perunchannel.WitnessForceClose:
		return perunerr.Wrap(perunerr.ChannelForceCloseWithChannelOutput, "force-close witness supplied for a transaction with a channel output")
	case perunchannel.WitnessAbort:
		return perunerr.Wrap(perunerr.ChannelAbortWithChannelOutput, "abort witness supplied for a transaction with a channel output")
	default:
		return perunerr.Wrap(perunerr.Encoding, "unknown witness kind %d", witness.Kind)
	}
}

func checkFund(ctx ledger.TxContext, c perunchannel.ChannelConstants, old, new perunchannel.ChannelStatus, pctsScriptHash ledger.Hash) error {
	if err := verifyEqualChannelState(old.State, new.State); err != nil {
		return err
	}
	if err := verifyStatusNotFunded(old); err != nil {
		return err
	}
	if err := verifyFundingInOutputs(ctx, funderIndexFund, old.State.Balances, c, pctsScriptHash); err != nil {
		return err
	}
	if err := verifyStatusNotDisputed(new); err != nil {
		return err
	}
	return verifyFundedStatus(new, false)
}

func checkDispute(c perunchannel.ChannelConstants, old, new perunchannel.ChannelStatus, witness perunchannel.ChannelWitness) error {
	if err := verifyChannelStateProgression(old.State, new.State); err != nil {
		return err
	}
	// verifyChannelStateProgression only sees the states, so the version
	// rule is checked again with the statuses' real disputed bits.
	if err := verifyIncreasingVersionNumber(old, new); err != nil {
		return err
	}
	if err := verifyStatusFunded(old); err != nil {
		return err
	}
	if err := verifyStatusDisputed(new); err != nil {
		return err
	}
	if err := verifyFundedStatus(new, false); err != nil {
		return err
	}
	return verifyValidStateSigs(c, new.State, witness.SigA, witness.SigB)
}

// verifyValidStateSigs checks both parties' signatures over the blake2b256
// digest of state's canonical encoding.
func verifyValidStateSigs(c perunchannel.ChannelConstants, state perunchannel.ChannelState, sigA, sigB perunchannel.Signature) error {
	stateBytes, err := state.AsSlice()
	if err != nil {
		return err
	}
	digest := peruncrypto.ChannelHash(stateBytes)
	if err := peruncrypto.Verify(c.Params.PartyA.PubKey, digest, sigA); err != nil {
		return err
	}
	return peruncrypto.Verify(c.Params.PartyB.PubKey, digest, sigB)
}
