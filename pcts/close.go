package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// partyBIndexAbort is the party whose share is cleared to zero before
// checking an Abort's payout: an Abort only ever returns party A's own
// funding, since party B never contributed to a channel that's being
// aborted.
const partyBIndexAbort = 1

// checkValidClose enforces the rules common to every Close transition (a
// channel cell at the group input, none at the output) and dispatches on
// the witness variant.
func checkValidClose(ctx ledger.TxContext, c perunchannel.ChannelConstants, in ledger.Cell) error {
	oldStatus, err := perunchannel.DecodeChannelStatus(in.Data)
	if err != nil {
		return err
	}
	channelCapacity := perunchannel.CKBytes(in.Capacity)

	witness, err := ctx.Witness()
	if err != nil {
		return err
	}

	switch witness.Kind {
	case perunchannel.WitnessAbort:
		return checkAbort(ctx, c, oldStatus, channelCapacity)
	case perunchannel.WitnessForceClose:
		return checkForceClose(ctx, c, oldStatus, channelCapacity)
	case perunchannel.WitnessClose:
		return checkClose(ctx, c, oldStatus, channelCapacity, witness)
	case perunchannel.WitnessFund:
		return perunerr.Wrap(perunerr.ChannelFundWithoutChannelOutput, "fund witness supplied for a transaction with no channel output")
	case perunchannel.WitnessDispute:
		return perunerr.Wrap(perunerr.ChannelDisputeWithoutChannelOutput, "dispute witness supplied for a transaction with no channel output")
	default:
		return perunerr.Wrap(perunerr.Encoding, "unknown witness kind %d", witness.Kind)
	}
}

func checkAbort(ctx ledger.TxContext, c perunchannel.ChannelConstants, old perunchannel.ChannelStatus, channelCapacity perunchannel.CKBytes) error {
	if err := verifyStatusNotFunded(old); err != nil {
		return err
	}
	cleared := old.State.Balances
	cleared.CKBytes[partyBIndexAbort] = 0
	cleared.SUDTs = make([]perunchannel.SUDTBalances, len(old.State.Balances.SUDTs))
	copy(cleared.SUDTs, old.State.Balances.SUDTs)
	for i := range cleared.SUDTs {
		cleared.SUDTs[i].Distribution[partyBIndexAbort] = perunchannel.U128{}
	}
	return verifyAllPayed(ctx, cleared, channelCapacity, c, true)
}

func checkForceClose(ctx ledger.TxContext, c perunchannel.ChannelConstants, old perunchannel.ChannelStatus, channelCapacity perunchannel.CKBytes) error {
	if err := verifyStatusFunded(old); err != nil {
		return err
	}
	if err := verifyTimeLockExpired(ctx, c.Params.ChallengeDuration); err != nil {
		return err
	}
	if err := verifyStatusDisputed(old); err != nil {
		return err
	}
	return verifyAllPayed(ctx, old.State.Balances, channelCapacity, c, false)
}

func checkClose(ctx ledger.TxContext, c perunchannel.ChannelConstants, old perunchannel.ChannelStatus, channelCapacity perunchannel.CKBytes, witness perunchannel.ChannelWitness) error {
	if err := verifyEqualChannelID(old.State.ChannelID, witness.State.ChannelID); err != nil {
		return err
	}
	if err := verifyStatusFunded(old); err != nil {
		return err
	}
	if err := verifyStateFinalized(witness.State); err != nil {
		return err
	}
	if err := verifyValidStateSigs(c, witness.State, witness.SigA, witness.SigB); err != nil {
		return err
	}
	return verifyAllPayed(ctx, witness.State.Balances, channelCapacity, c, false)
}

// verifyTimeLockExpired requires that the latest timestamp among the
// transaction's declared header dependencies — the on-chain "clock" a
// ForceClose proves the dispute window against — has reached the group
// input's own committing header's timestamp plus the channel's challenge
// duration.
func verifyTimeLockExpired(ctx ledger.TxContext, challengeDuration uint64) error {
	idx, ok := ctx.GroupInputIndex()
	if !ok {
		return perunerr.Wrap(perunerr.ItemMissing, "no group input to check the dispute time lock against")
	}
	disputedAt, err := ctx.HeaderTimestamp(idx)
	if err != nil {
		return err
	}
	deps, err := ctx.HeaderDepTimestamps()
	if err != nil {
		return err
	}
	var now uint64
	for _, t := range deps {
		if t > now {
			now = t
		}
	}
	if disputedAt+challengeDuration > now {
		return perunerr.Wrap(perunerr.TimeLockNotExpired, "challenge window ends at %d, now is %d", disputedAt+challengeDuration, now)
	}
	return nil
}
