// Package ledger defines the host-ledger accessor surface the PCTS, PCLS,
// and PFLS predicates consume. It deliberately mirrors the narrow set of
// capabilities a CKB-style script has available through syscalls: load this
// script's args, walk cells, load witnesses, and load header timestamps.
// Nothing in this package talks to a real chain; a concrete implementation
// (an indexer, a syscall shim, or the in-memory fixtures under
// internal/harness) is always supplied by the caller.
package ledger

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/perun-network/perun-ckb-core/perunchannel"
)

// HashType re-exports perunchannel's script hash-type discriminant: it is a
// schema field (ChannelConstants carries two of them), so perunchannel owns
// the canonical definition and ledger just reuses it.
type HashType = perunchannel.HashType

const (
	HashTypeData  = perunchannel.HashTypeData
	HashTypeType  = perunchannel.HashTypeType
	HashTypeData1 = perunchannel.HashTypeData1
)

// Script is a lock or type script: a code hash, a hash type, and args.
type Script struct {
	CodeHash chainhash.Hash
	HashType HashType
	Args     []byte
}

// Equal reports whether two scripts are byte-for-byte identical.
func (s Script) Equal(o Script) bool {
	if s.CodeHash != o.CodeHash || s.HashType != o.HashType {
		return false
	}
	if len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// OutPoint re-exports perunchannel's outpoint type (tx hash + index), the
// same shape ChannelToken uses to pin the thread token.
type OutPoint = perunchannel.OutPoint

// Cell is the portion of a ledger output (or input, dereferenced through its
// previous output) a predicate can observe: its lock script, optional type
// script, capacity in native ledger units, and data blob.
type Cell struct {
	Lock       Script
	Type       *Script
	Capacity   uint64
	Data       []byte
	PrevOut    OutPoint
	HeaderTime uint64 // timestamp of the block that committed this cell, if it's an input
}
