package perunchannel

import (
	"bytes"
	"io"
)

// ChannelState is the mutable, off-chain-negotiated payload both parties
// sign: which channel it belongs to, a strictly increasing version counter,
// the current balance split, and whether this state is the final one either
// party may ever submit for cooperative close.
type ChannelState struct {
	ChannelID Hash
	Version   uint64
	Balances  Balances
	IsFinal   bool
}

// AsSlice returns the canonical encoding used both as the Close witness's
// state payload and as the message hashed and signed during Dispute.
func (s ChannelState) AsSlice() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(s.ChannelID[:])
	var scratch [8]byte
	if err := eUint64(&buf, &s.Version, &scratch); err != nil {
		return nil, err
	}
	if err := encodeBalances(&buf, s.Balances); err != nil {
		return nil, err
	}
	isFinal := s.IsFinal
	if err := eBool(&buf, &isFinal, &scratch); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeChannelState parses the bytes produced by AsSlice.
func DecodeChannelState(b []byte) (ChannelState, error) {
	r := bytes.NewReader(b)
	var s ChannelState
	if _, err := io.ReadFull(r, s.ChannelID[:]); err != nil {
		return s, err
	}
	var scratch [8]byte
	if err := dUint64(r, &s.Version, &scratch, 8); err != nil {
		return s, err
	}
	bal, err := decodeBalances(r)
	if err != nil {
		return s, err
	}
	s.Balances = bal
	if err := dBool(r, &s.IsFinal, &scratch, 1); err != nil {
		return s, err
	}
	return s, nil
}

// Equal reports whether two states are identical.
func (s ChannelState) Equal(o ChannelState) bool {
	return s.ChannelID == o.ChannelID &&
		s.Version == o.Version &&
		s.Balances.Equal(o.Balances) &&
		s.IsFinal == o.IsFinal
}
