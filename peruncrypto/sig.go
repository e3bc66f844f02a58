package peruncrypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/perun-network/perun-ckb-core/perunerr"
)

// PubKeySize is the length of a SEC1-compressed secp256k1 public key, the
// only encoding a Participant's PubKey field ever carries.
const PubKeySize = 33

// Sign produces a DER-encoded ECDSA signature over digest with priv. Nothing
// in PCTS calls this — it exists for tests and for anyone replaying a
// rejected transaction locally to understand what a valid witness would
// have looked like.
func Sign(priv *btcec.PrivateKey, digest [32]byte) []byte {
	sig := ecdsa.Sign(priv, digest[:])
	return sig.Serialize()
}

// Verify checks that sig is a valid DER-encoded ECDSA signature over digest
// by the party whose SEC1-compressed public key is pubKey. Any malformed
// input (a pubkey that doesn't parse, a signature that isn't valid DER)
// is reported the same way as a signature that simply doesn't verify:
// perunerr.SignatureVerificationError, since PCTS has no use for the
// distinction.
func Verify(pubKey [PubKeySize]byte, digest [32]byte, sig []byte) error {
	key, err := btcec.ParsePubKey(pubKey[:])
	if err != nil {
		return perunerr.Wrap(perunerr.SignatureVerificationError, "parse public key: %v", err)
	}
	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return perunerr.Wrap(perunerr.SignatureVerificationError, "parse signature: %v", err)
	}
	if !parsedSig.Verify(digest[:], key) {
		return perunerr.Wrap(perunerr.SignatureVerificationError, "signature does not verify")
	}
	return nil
}
