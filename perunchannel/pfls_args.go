package perunchannel

import "github.com/perun-network/perun-ckb-core/perunerr"

// PFLSArgs is the entirety of a funding-lock cell's script args: the hash of
// the PCTS type script whose channel this cell's funds belong to. PFLS
// itself never inspects balances or participants; it only needs to prove
// that some input in the spending transaction is the channel cell it was
// created for.
type PFLSArgs struct {
	PCTSScriptHash Hash
}

// Equal reports whether two args name the same PCTS script.
func (a PFLSArgs) Equal(o PFLSArgs) bool {
	return a.PCTSScriptHash == o.PCTSScriptHash
}

// DecodePFLSArgs parses a funding-lock cell's script args.
func DecodePFLSArgs(b []byte) (PFLSArgs, error) {
	var a PFLSArgs
	if len(b) != hashSize {
		return a, perunerr.Wrap(perunerr.LengthNotEnough, "pfls args must be exactly 32 bytes, got %d", len(b))
	}
	copy(a.PCTSScriptHash[:], b)
	return a, nil
}

// AsSlice returns the raw 32-byte script hash.
func (a PFLSArgs) AsSlice() []byte {
	out := make([]byte, hashSize)
	copy(out, a.PCTSScriptHash[:])
	return out
}
