package perunchannel

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// OutPoint pins a specific cell by the transaction that created it and its
// index among that transaction's outputs, the same shape the thread token
// uses to bind a channel to the one cell its Start transaction consumes.
type OutPoint struct {
	TxHash chainhash.Hash
	Index  uint32
}

// Equal reports whether two out points refer to the same cell.
func (o OutPoint) Equal(other OutPoint) bool {
	return o.TxHash == other.TxHash && o.Index == other.Index
}
