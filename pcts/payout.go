package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// verifyAllPayed checks that every output owed to party A and party B under
// finalBalance actually lands in the transaction's outputs, locked by each
// party's own payment script. channelCapacity is the native capacity the
// channel cell itself released by being consumed; reimburse credits each
// party for the capacity that had been tied up housing SUDT cells (on an
// Abort, party B never funded those SUDT cells, so only party A is
// reimbursed and party B's reimbursement is zero). A party whose
// required balance falls below their own declared minimum payment capacity
// is waived rather than forced into an uneconomical dust cell — "at least"
// matching, not exact equality, so a party may always be overpaid by a
// cooperative counterparty.
func verifyAllPayed(ctx ledger.TxContext, finalBalance perunchannel.Balances, channelCapacity perunchannel.CKBytes, c perunchannel.ChannelConstants, isAbort bool) error {
	reimburse, err := finalBalance.LockedCKBytes()
	if err != nil {
		return err
	}
	reimburseA := reimburse
	reimburseB := reimburse
	if isAbort {
		reimburseB = 0
	}

	wantA, err := finalBalance.CKBytes[0].Add(channelCapacity)
	if err != nil {
		return err
	}
	wantA, err = wantA.Add(reimburseA)
	if err != nil {
		return err
	}
	wantB, err := finalBalance.CKBytes[1].Add(reimburseB)
	if err != nil {
		return err
	}

	var gotA, gotB perunchannel.CKBytes
	udtA := make(map[int]perunchannel.U128)
	udtB := make(map[int]perunchannel.U128)

	for i := 0; ; i++ {
		out, err := ctx.Output(i)
		if err == ledger.ErrIndexOutOfBound {
			break
		}
		if err != nil {
			return err
		}
		lockHash := ctx.ScriptHash(out.Lock)

		switch lockHash {
		case c.Params.PartyA.PaymentScriptHash:
			gotA, err = gotA.Add(perunchannel.CKBytes(out.Capacity))
			if err != nil {
				return err
			}
			if out.Type != nil {
				idx, ok := finalBalance.GetDistribution(ctx.ScriptHash(*out.Type))
				if !ok {
					return perunerr.Wrap(perunerr.TypeScriptInPaymentOutput, "payout output %d to party A carries a type script that is not one of this channel's declared sudt assets", i)
				}
				amt, err := getSUDTAmount(out)
				if err != nil {
					return err
				}
				cur := udtA[idx]
				total, err := cur.Add(amt)
				if err != nil {
					return err
				}
				udtA[idx] = total
			}
		case c.Params.PartyB.PaymentScriptHash:
			gotB, err = gotB.Add(perunchannel.CKBytes(out.Capacity))
			if err != nil {
				return err
			}
			if out.Type != nil {
				idx, ok := finalBalance.GetDistribution(ctx.ScriptHash(*out.Type))
				if !ok {
					return perunerr.Wrap(perunerr.TypeScriptInPaymentOutput, "payout output %d to party B carries a type script that is not one of this channel's declared sudt assets", i)
				}
				amt, err := getSUDTAmount(out)
				if err != nil {
					return err
				}
				cur := udtB[idx]
				total, err := cur.Add(amt)
				if err != nil {
					return err
				}
				udtB[idx] = total
			}
		}
	}

	aShort := wantA > gotA && wantA >= c.Params.PartyA.PaymentMinCapacity
	bShort := wantB > gotB && wantB >= c.Params.PartyB.PaymentMinCapacity
	if aShort || bShort {
		return perunerr.Wrap(perunerr.NotAllPayed, "payout short: A want %d got %d, B want %d got %d", wantA, gotA, wantB, gotB)
	}
	if !finalBalance.AtLeastRepresented(0, udtA) || !finalBalance.AtLeastRepresented(1, udtB) {
		return perunerr.Wrap(perunerr.NotAllPayed, "sudt payout not fully represented")
	}
	return nil
}
