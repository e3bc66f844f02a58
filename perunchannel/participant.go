package perunchannel

import (
	"bytes"
)

// pubKeySize is the length of a SEC1-compressed secp256k1 public key.
const pubKeySize = 33

// hashSize is the length of a 32-byte digest field.
const hashSize = 32

// Participant describes one side of a channel: the key it signs updates
// with, where its payout lands, and where its PCLS unlock authorization
// comes from.
type Participant struct {
	// PubKey is the SEC1-compressed secp256k1 public key this party signs
	// channel states with.
	PubKey [pubKeySize]byte
	// PaymentScriptHash is the lock-script hash funds are paid out to on
	// close.
	PaymentScriptHash Hash
	// PaymentMinCapacity is the minimum native-asset capacity a payout
	// cell to this party must carry; payouts below it are waived rather
	// than forced into a sub-minimal cell.
	PaymentMinCapacity CKBytes
	// UnlockScriptHash is the lock-script hash of an input PCLS accepts
	// as proof this party authorized the transaction.
	UnlockScriptHash Hash
}

// Equal reports whether two participants describe the same party.
func (p Participant) Equal(o Participant) bool {
	return p.PubKey == o.PubKey &&
		p.PaymentScriptHash == o.PaymentScriptHash &&
		p.PaymentMinCapacity == o.PaymentMinCapacity &&
		p.UnlockScriptHash == o.UnlockScriptHash
}

// encodeParticipant writes p's fields in schema order: public key, payment
// script hash, payment minimum capacity, unlock script hash.
func encodeParticipant(buf *bytes.Buffer, p Participant) error {
	var scratch [8]byte
	pubKey := p.PubKey[:]
	if err := eFixedBytes(buf, &pubKey, &scratch); err != nil {
		return err
	}
	if err := eHash(buf, &p.PaymentScriptHash, &scratch); err != nil {
		return err
	}
	cap64 := uint64(p.PaymentMinCapacity)
	if err := eUint64(buf, &cap64, &scratch); err != nil {
		return err
	}
	return eHash(buf, &p.UnlockScriptHash, &scratch)
}

func decodeParticipant(r *bytes.Reader) (Participant, error) {
	var p Participant
	var scratch [8]byte
	pubKey := make([]byte, pubKeySize)
	if err := dFixedBytes(pubKeySize)(r, &pubKey, &scratch, pubKeySize); err != nil {
		return p, err
	}
	copy(p.PubKey[:], pubKey)
	if err := dHash(r, &p.PaymentScriptHash, &scratch, hashSize); err != nil {
		return p, err
	}
	var cap64 uint64
	if err := dUint64(r, &cap64, &scratch, 8); err != nil {
		return p, err
	}
	p.PaymentMinCapacity = CKBytes(cap64)
	if err := dHash(r, &p.UnlockScriptHash, &scratch, hashSize); err != nil {
		return p, err
	}
	return p, nil
}
