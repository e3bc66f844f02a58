// Package perunchannel implements the Perun channel data model: the
// immutable ChannelParameters/ChannelConstants, the mutable ChannelState and
// its Balances, and the ChannelWitness variants a spending transaction
// supplies. Every record is encoded by writing its fields directly, in a
// fixed order, through field codecs shaped like github.com/lightningnetwork/lnd/tlv
// encoders and decoders (no tlv.Stream or type numbers are involved); that
// encoding IS the record's canonical as_slice() view used for hashing and
// signing, so field order must never change once assigned.
package perunchannel

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// CKBytes is a native-asset balance, modeled on btcutil.Amount: a uint64
// count of ledger units with string formatting and overflow-checked
// arithmetic helpers.
type CKBytes uint64

// Add returns a+b, reporting perunerr.Encoding if the sum would overflow.
func (a CKBytes) Add(b CKBytes) (CKBytes, error) {
	sum := a + b
	if sum < a {
		return 0, perunerr.Wrap(perunerr.Encoding, "ckbytes overflow: %d + %d", a, b)
	}
	return sum, nil
}

// String renders the amount the way btcutil.Amount renders satoshis: a bare
// integer count of the base unit, since CKBytes here are already expressed
// in the ledger's minimal unit (shannons).
func (a CKBytes) String() string {
	return bigUintString(uint64(a))
}

func bigUintString(v uint64) string {
	return new(big.Int).SetUint64(v).String()
}

// U128 holds a 128-bit unsigned SUDT amount. Go has no native uint128, so the
// value is carried as a bounds-checked big.Int, matching the spec's
// requirement that SUDT cell data is interpreted as a little-endian 128-bit
// integer.
type U128 struct {
	v *big.Int
}

var u128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// NewU128 constructs a U128 from a big.Int, failing if it doesn't fit in 128
// bits or is negative.
func NewU128(v *big.Int) (U128, error) {
	if v.Sign() < 0 || v.Cmp(u128Max) > 0 {
		return U128{}, perunerr.Wrap(perunerr.Encoding, "value %s out of u128 range", v)
	}
	return U128{v: new(big.Int).Set(v)}, nil
}

// U128FromUint64 constructs a U128 from a uint64, which always fits.
func U128FromUint64(v uint64) U128 {
	return U128{v: new(big.Int).SetUint64(v)}
}

// Big returns the value as a big.Int. The zero value of U128 returns zero.
func (u U128) Big() *big.Int {
	if u.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(u.v)
}

// Add returns u+o, bounds-checked to 128 bits.
func (u U128) Add(o U128) (U128, error) {
	return NewU128(new(big.Int).Add(u.Big(), o.Big()))
}

// Cmp compares u and o the way big.Int.Cmp does.
func (u U128) Cmp(o U128) int {
	return u.Big().Cmp(o.Big())
}

// String renders the decimal value.
func (u U128) String() string {
	return u.Big().String()
}

// bytesLE encodes u as 16 little-endian bytes.
func (u U128) bytesLE() [16]byte {
	var out [16]byte
	be := u.Big().FillBytes(make([]byte, 16)) // big-endian, left-padded
	for i := 0; i < 16; i++ {
		out[i] = be[15-i]
	}
	return out
}

// u128FromLE decodes 16 little-endian bytes into a U128.
func u128FromLE(b [16]byte) U128 {
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[i] = b[15-i]
	}
	return U128{v: new(big.Int).SetBytes(be)}
}

// U128FromLE decodes 16 little-endian bytes into a U128, the layout every
// SUDT cell's data carries its amount in.
func U128FromLE(b [16]byte) U128 {
	return u128FromLE(b)
}

// Hash is a 32-byte Blake2b-256 digest or identifier, reusing the teacher's
// 32-byte hash type rather than a bare [32]byte alias.
type Hash = chainhash.Hash
