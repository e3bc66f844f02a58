package peruncrypto

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	blake2b "github.com/minio/blake2b-simd"
)

// ckbHashPersonal is the domain-separation tag CKB applies to every
// blake2b-256 digest it computes on-chain (block hashes, script hashes,
// transaction hashes), built the same way the reference implementation's
// Blake2bBuilder::new(32).personal(b"ckb-default-hash") is: a personalized
// blake2b-256, not the vanilla IV. Every channel id and signature digest in
// this module must use the same construction to agree with a real CKB node.
var ckbHashPersonal = []byte("ckb-default-hash")

// ChannelHash returns the CKB-domain blake2b-256 digest of b, the hash
// function used throughout the system: deriving a channel id from its
// parameters, and deriving the message a Dispute or Close witness's
// signatures must cover from a channel state.
func ChannelHash(b []byte) chainhash.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: ckbHashPersonal})
	if err != nil {
		// Size and Person are both within blake2b-simd's fixed limits
		// (size <= 64, person <= 16 bytes), so this never fails.
		panic(err)
	}
	h.Write(b)
	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out
}
