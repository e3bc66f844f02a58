package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// getSUDTAmount reads a funding-lock cell's data as a little-endian 128-bit
// SUDT amount, the standard SUDT cell-data layout: first 16 bytes are the
// amount, anything after is ignored.
func getSUDTAmount(cell ledger.Cell) (perunchannel.U128, error) {
	if len(cell.Data) < 16 {
		return perunchannel.U128{}, perunerr.Wrap(perunerr.InvalidSUDTDataLength, "sudt cell data is %d bytes, want at least 16", len(cell.Data))
	}
	var le [16]byte
	copy(le[:], cell.Data[:16])
	return perunchannel.U128FromLE(le), nil
}

// verifyFundingInOutputs checks that partyIdx's contribution toward
// initialBalance — native capacity plus every SUDT asset's allocation to
// that party — actually lands in the transaction's outputs, each as a cell
// locked by this channel's funds lock with args equal to the channel
// script's own hash (so no other channel can mistake this funding cell for
// its own).
func verifyFundingInOutputs(ctx ledger.TxContext, partyIdx int, initialBalance perunchannel.Balances, c perunchannel.ChannelConstants, pctsScriptHash ledger.Hash) error {
	lockedCKBytes, err := initialBalance.LockedCKBytes()
	if err != nil {
		return err
	}
	toFund, err := initialBalance.CKBytes[partyIdx].Add(lockedCKBytes)
	if err != nil {
		return err
	}
	if toFund == 0 && len(initialBalance.SUDTs) == 0 {
		return nil
	}

	var capacitySum perunchannel.CKBytes
	udtSum := make(map[int]perunchannel.U128)

	for i := 0; ; i++ {
		out, err := ctx.Output(i)
		if err == ledger.ErrIndexOutOfBound {
			break
		}
		if err != nil {
			return err
		}
		if out.Lock.CodeHash != c.PFLSCodeHash || out.Lock.HashType != ledger.HashType(c.PFLSHashType) {
			continue
		}
		if len(out.Lock.Args) != 32 || ledger.Hash(pctsHashFromArgs(out.Lock.Args)) != pctsScriptHash {
			return perunerr.Wrap(perunerr.InvalidPFLSInOutputs, "funds lock output %d args do not match this channel's script hash", i)
		}
		sum, err := capacitySum.Add(perunchannel.CKBytes(out.Capacity))
		if err != nil {
			return err
		}
		capacitySum = sum

		if out.Type != nil {
			idx, ok := initialBalance.GetDistribution(ctx.ScriptHash(*out.Type))
			if !ok {
				return perunerr.Wrap(perunerr.TypeScriptInPFLSOutput, "funds lock output %d carries a type script that is not one of this channel's declared sudt assets", i)
			}
			amt, err := getSUDTAmount(out)
			if err != nil {
				return err
			}
			cur := udtSum[idx]
			total, err := cur.Add(amt)
			if err != nil {
				return err
			}
			udtSum[idx] = total
		}
	}

	if capacitySum != toFund {
		return perunerr.Wrap(perunerr.OwnFundingNotInOutputs, "funding cells carry %d capacity, want %d", capacitySum, toFund)
	}
	if !initialBalance.FullyRepresented(partyIdx, udtSum) {
		return perunerr.Wrap(perunerr.OwnFundingNotInOutputs, "sudt funding for party %d not fully represented in outputs", partyIdx)
	}
	return nil
}

// pctsHashFromArgs reinterprets a funds-lock output's 32-byte args as the
// script hash of the channel it belongs to.
func pctsHashFromArgs(args []byte) [32]byte {
	var h [32]byte
	copy(h[:], args)
	return h
}
