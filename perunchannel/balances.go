package perunchannel

import (
	"bytes"
	"io"

	"github.com/perun-network/perun-ckb-core/perunerr"
)

// sudtBalancesEncodedSize is the fixed per-entry size of an encoded
// SUDTBalances record: a 32-byte type script hash, an 8-byte max capacity,
// and two 16-byte little-endian U128 distributions.
const sudtBalancesEncodedSize = hashSize + 8 + 2*16

// AssetDescriptor identifies a SUDT asset by its type script hash and caps
// the native-asset capacity any single cell holding that asset may carry
// (the funding and payout logic uses this to know how much capacity goes
// toward "housing" the SUDT cell rather than toward either party's balance).
type AssetDescriptor struct {
	TypeScriptHash Hash
	MaxCapacity    CKBytes
}

// Equal reports whether two descriptors name the same asset with the same cap.
func (a AssetDescriptor) Equal(o AssetDescriptor) bool {
	return a.TypeScriptHash == o.TypeScriptHash && a.MaxCapacity == o.MaxCapacity
}

// SUDTBalances is one SUDT asset's distribution between the two parties.
type SUDTBalances struct {
	Asset        AssetDescriptor
	Distribution [2]U128
}

// Equal reports whether two SUDT balances describe the same asset and split.
func (s SUDTBalances) Equal(o SUDTBalances) bool {
	return s.Asset.Equal(o.Asset) &&
		s.Distribution[0].Cmp(o.Distribution[0]) == 0 &&
		s.Distribution[1].Cmp(o.Distribution[1]) == 0
}

// Balances is a channel's native-asset split plus zero or more SUDT
// balances, each party's allocation tracked by a fixed index: 0 is party A,
// 1 is party B.
type Balances struct {
	CKBytes [2]CKBytes
	SUDTs   []SUDTBalances
}

// Equal reports whether two balance sets are identical, field for field
// (including SUDT order — a reordering of the SUDT list is a different
// balance, since it changes which distribution index maps to which asset).
func (b Balances) Equal(o Balances) bool {
	if b.CKBytes != o.CKBytes {
		return false
	}
	if len(b.SUDTs) != len(o.SUDTs) {
		return false
	}
	for i := range b.SUDTs {
		if !b.SUDTs[i].Equal(o.SUDTs[i]) {
			return false
		}
	}
	return true
}

// SumEqual reports whether b and o carry the same total across every asset,
// native and SUDT, regardless of how that total is split between the two
// parties. A valid channel update may move value between the parties but
// must never create or destroy it.
func (b Balances) SumEqual(o Balances) (bool, error) {
	aSum, err := b.CKBytes[0].Add(b.CKBytes[1])
	if err != nil {
		return false, err
	}
	bSum, err := o.CKBytes[0].Add(o.CKBytes[1])
	if err != nil {
		return false, err
	}
	if aSum != bSum {
		return false, nil
	}
	if len(b.SUDTs) != len(o.SUDTs) {
		return false, nil
	}
	for i := range b.SUDTs {
		if !b.SUDTs[i].Asset.Equal(o.SUDTs[i].Asset) {
			return false, nil
		}
		aTot, err := b.SUDTs[i].Distribution[0].Add(b.SUDTs[i].Distribution[1])
		if err != nil {
			return false, err
		}
		bTot, err := o.SUDTs[i].Distribution[0].Add(o.SUDTs[i].Distribution[1])
		if err != nil {
			return false, err
		}
		if aTot.Cmp(bTot) != 0 {
			return false, nil
		}
	}
	return true, nil
}

// LockedCKBytes returns the sum of every SUDT asset's MaxCapacity: the
// native-asset capacity that must be set aside to house the SUDT cells
// regardless of who currently owns the tokens inside them.
func (b Balances) LockedCKBytes() (CKBytes, error) {
	var sum CKBytes
	var err error
	for _, s := range b.SUDTs {
		sum, err = sum.Add(s.Asset.MaxCapacity)
		if err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// AssetSum returns the total of a single SUDT asset's distribution across
// both parties, mirroring the original contract's Balances::sum helper.
func (b Balances) AssetSum(assetIdx int) (U128, error) {
	if assetIdx < 0 || assetIdx >= len(b.SUDTs) {
		return U128{}, perunerr.Wrap(perunerr.Encoding, "asset index %d out of range", assetIdx)
	}
	return b.SUDTs[assetIdx].Distribution[0].Add(b.SUDTs[assetIdx].Distribution[1])
}

// GetDistribution looks up the distribution index of the SUDT asset whose
// type script hash is typeScriptHash, reporting ok=false if no such asset is
// part of this balance set.
func (b Balances) GetDistribution(typeScriptHash Hash) (idx int, ok bool) {
	for i, s := range b.SUDTs {
		if s.Asset.TypeScriptHash == typeScriptHash {
			return i, true
		}
	}
	return 0, false
}

// FullyRepresented reports whether observed, a map from SUDT index to the
// U128 amount actually found in a transaction's outputs for party
// partyIdx, accounts for exactly this balance's expected distribution for
// every asset — no asset is short-paid, and no index outside the balance's
// own asset list was touched.
func (b Balances) FullyRepresented(partyIdx int, observed map[int]U128) bool {
	for i, s := range b.SUDTs {
		want := s.Distribution[partyIdx]
		got, ok := observed[i]
		if !ok {
			got = U128{}
		}
		if want.Cmp(got) != 0 {
			return false
		}
	}
	for i := range observed {
		if i < 0 || i >= len(b.SUDTs) {
			return false
		}
	}
	return true
}

// AtLeastRepresented is FullyRepresented's overpayment-tolerant counterpart: it
// accepts an observed amount that meets or exceeds what partyIdx is owed for
// every asset, rather than demanding an exact match. Payout verification
// uses this instead of FullyRepresented — a party may always be overpaid by
// a cooperative counterparty, but funding verification still demands exact
// amounts since over-funding would strand value nobody can claim.
func (b Balances) AtLeastRepresented(partyIdx int, observed map[int]U128) bool {
	for i, s := range b.SUDTs {
		want := s.Distribution[partyIdx]
		got, ok := observed[i]
		if !ok {
			got = U128{}
		}
		if got.Cmp(want) < 0 {
			return false
		}
	}
	for i := range observed {
		if i < 0 || i >= len(b.SUDTs) {
			return false
		}
	}
	return true
}

func encodeBalances(buf *bytes.Buffer, b Balances) error {
	var scratch [8]byte
	for _, v := range b.CKBytes {
		c := uint64(v)
		if err := eUint64(buf, &c, &scratch); err != nil {
			return err
		}
	}
	count := uint32(len(b.SUDTs))
	if err := eUint32(buf, &count, &scratch); err != nil {
		return err
	}
	for _, s := range b.SUDTs {
		buf.Write(s.Asset.TypeScriptHash[:])
		maxCap := uint64(s.Asset.MaxCapacity)
		if err := eUint64(buf, &maxCap, &scratch); err != nil {
			return err
		}
		for _, d := range s.Distribution {
			le := d.bytesLE()
			buf.Write(le[:])
		}
	}
	return nil
}

func decodeBalances(r *bytes.Reader) (Balances, error) {
	var b Balances
	var scratch [8]byte
	for i := range b.CKBytes {
		var v uint64
		if err := dUint64(r, &v, &scratch, 8); err != nil {
			return b, err
		}
		b.CKBytes[i] = CKBytes(v)
	}
	var count uint32
	if err := dUint32(r, &count, &scratch, 4); err != nil {
		return b, err
	}
	// Each SUDT entry has a fixed encoded size, so a declared count that
	// can't possibly fit in what's left of the buffer is a corrupted
	// field count rather than something a short read would naturally
	// catch entry-by-entry.
	if uint64(count)*sudtBalancesEncodedSize > uint64(r.Len()) {
		return b, perunerr.Wrap(perunerr.FieldCountNotMatch, "sudt count %d needs %d bytes, only %d remain", count, uint64(count)*sudtBalancesEncodedSize, r.Len())
	}
	b.SUDTs = make([]SUDTBalances, count)
	for i := range b.SUDTs {
		var s SUDTBalances
		if _, err := io.ReadFull(r, s.Asset.TypeScriptHash[:]); err != nil {
			return b, err
		}
		var maxCap uint64
		if err := dUint64(r, &maxCap, &scratch, 8); err != nil {
			return b, err
		}
		s.Asset.MaxCapacity = CKBytes(maxCap)
		for j := range s.Distribution {
			var le [16]byte
			if _, err := io.ReadFull(r, le[:]); err != nil {
				return b, err
			}
			s.Distribution[j] = u128FromLE(le)
		}
		b.SUDTs[i] = s
	}
	return b, nil
}
