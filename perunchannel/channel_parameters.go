package perunchannel

import (
	"bytes"
	"io"

	"github.com/perun-network/perun-ckb-core/peruncrypto"
)

// nonceSize is the length of the per-channel randomness that, combined with
// the two participants and the challenge duration, makes ChannelParameters
// (and therefore the derived channel id) unique even if every other field
// were to repeat.
const nonceSize = 32

// ChannelParameters is the immutable agreement the two parties reach before
// a channel is ever funded: who the participants are, how long a dispute may
// be contested, and whether this is a ledger channel (the only kind this
// module ever honors — virtual and app channels are rejected, not modeled).
type ChannelParameters struct {
	PartyA            Participant
	PartyB            Participant
	Nonce             [nonceSize]byte
	ChallengeDuration uint64
	IsLedgerChannel   bool
	IsVirtualChannel  bool
}

// AsSlice returns the canonical tlv-ordered byte encoding of p: party A,
// party B, nonce, challenge duration, is-ledger flag, is-virtual flag. This
// is the exact input blake2b256 is applied to when deriving a channel id, so
// its field order must never change.
func (p ChannelParameters) AsSlice() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeParticipant(&buf, p.PartyA); err != nil {
		return nil, err
	}
	if err := encodeParticipant(&buf, p.PartyB); err != nil {
		return nil, err
	}
	buf.Write(p.Nonce[:])
	var scratch [8]byte
	if err := eUint64(&buf, &p.ChallengeDuration, &scratch); err != nil {
		return nil, err
	}
	isLedger, isVirtual := p.IsLedgerChannel, p.IsVirtualChannel
	if err := eBool(&buf, &isLedger, &scratch); err != nil {
		return nil, err
	}
	if err := eBool(&buf, &isVirtual, &scratch); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ChannelID derives the channel's identity as the CKB-domain blake2b256
// digest of AsSlice(), the one hash every record in the system (state,
// status, witness signature digest) is ultimately keyed against.
func (p ChannelParameters) ChannelID() (Hash, error) {
	b, err := p.AsSlice()
	if err != nil {
		return Hash{}, err
	}
	return peruncrypto.ChannelHash(b), nil
}

// DecodeChannelParameters parses the bytes produced by AsSlice.
func DecodeChannelParameters(b []byte) (ChannelParameters, error) {
	r := bytes.NewReader(b)
	var p ChannelParameters
	var err error
	if p.PartyA, err = decodeParticipant(r); err != nil {
		return p, err
	}
	if p.PartyB, err = decodeParticipant(r); err != nil {
		return p, err
	}
	if _, err = io.ReadFull(r, p.Nonce[:]); err != nil {
		return p, err
	}
	var scratch [8]byte
	if err = dUint64(r, &p.ChallengeDuration, &scratch, 8); err != nil {
		return p, err
	}
	if err = dBool(r, &p.IsLedgerChannel, &scratch, 1); err != nil {
		return p, err
	}
	if err = dBool(r, &p.IsVirtualChannel, &scratch, 1); err != nil {
		return p, err
	}
	return p, nil
}

// Equal reports whether two parameter sets are identical.
func (p ChannelParameters) Equal(o ChannelParameters) bool {
	return p.PartyA.Equal(o.PartyA) &&
		p.PartyB.Equal(o.PartyB) &&
		p.Nonce == o.Nonce &&
		p.ChallengeDuration == o.ChallengeDuration &&
		p.IsLedgerChannel == o.IsLedgerChannel &&
		p.IsVirtualChannel == o.IsVirtualChannel
}
