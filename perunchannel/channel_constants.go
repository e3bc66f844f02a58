package perunchannel

import (
	"bytes"
	"io"

	"github.com/perun-network/perun-ckb-core/perunerr"
)

// ChannelConstants is the full set of arguments a PCTS cell carries: the
// channel parameters plus the code hashes PCTS must recognize for the
// funding lock (PFLS) and the participant-authorization lock (PCLS), and the
// thread token that proves exclusivity of this channel cell. It is decoded
// once from the PCTS script's args and then threaded through every check.
type ChannelConstants struct {
	Params ChannelParameters

	PFLSCodeHash    Hash
	PFLSHashType    HashType
	PFLSMinCapacity CKBytes

	PCLSCodeHash Hash
	PCLSHashType HashType

	ThreadToken ChannelToken
}

// AsSlice returns the canonical encoding of c, schema field order: params,
// pfls code hash, pfls hash type, pfls min capacity, pcls code hash, pcls
// hash type, thread token.
func (c ChannelConstants) AsSlice() ([]byte, error) {
	var buf bytes.Buffer
	paramBytes, err := c.Params.AsSlice()
	if err != nil {
		return nil, err
	}
	buf.Write(paramBytes)
	buf.Write(c.PFLSCodeHash[:])
	buf.WriteByte(byte(c.PFLSHashType))
	var scratch [8]byte
	minCap := uint64(c.PFLSMinCapacity)
	if err := eUint64(&buf, &minCap, &scratch); err != nil {
		return nil, err
	}
	buf.Write(c.PCLSCodeHash[:])
	buf.WriteByte(byte(c.PCLSHashType))
	if err := encodeChannelToken(&buf, c.ThreadToken); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeChannelConstants parses a PCTS script's args into ChannelConstants.
// The nested ChannelParameters field occupies a fixed, statically-sized
// prefix (Participant, Participant, nonce, uint64, bool, bool), so the
// remaining fields are read directly off the same reader without needing a
// length prefix around the nested record.
func DecodeChannelConstants(b []byte) (ChannelConstants, error) {
	var c ChannelConstants
	params, err := DecodeChannelParameters(b)
	if err != nil {
		return c, err
	}
	c.Params = params

	paramBytes, err := params.AsSlice()
	if err != nil {
		return c, err
	}
	if len(b) < len(paramBytes) {
		return c, perunerr.Wrap(perunerr.OffsetsNotMatch, "channel constants shorter than its own decoded parameters: %d < %d", len(b), len(paramBytes))
	}
	r := bytes.NewReader(b[len(paramBytes):])

	if _, err := io.ReadFull(r, c.PFLSCodeHash[:]); err != nil {
		return c, err
	}
	ht, err := r.ReadByte()
	if err != nil {
		return c, err
	}
	c.PFLSHashType = HashType(ht)

	var scratch [8]byte
	var minCap uint64
	if err := dUint64(r, &minCap, &scratch, 8); err != nil {
		return c, err
	}
	c.PFLSMinCapacity = CKBytes(minCap)

	if _, err := io.ReadFull(r, c.PCLSCodeHash[:]); err != nil {
		return c, err
	}
	ht, err = r.ReadByte()
	if err != nil {
		return c, err
	}
	c.PCLSHashType = HashType(ht)

	token, err := decodeChannelToken(r)
	if err != nil {
		return c, err
	}
	c.ThreadToken = token

	return c, nil
}

// Equal reports whether two constant sets are identical.
func (c ChannelConstants) Equal(o ChannelConstants) bool {
	return c.Params.Equal(o.Params) &&
		c.PFLSCodeHash == o.PFLSCodeHash &&
		c.PFLSHashType == o.PFLSHashType &&
		c.PFLSMinCapacity == o.PFLSMinCapacity &&
		c.PCLSCodeHash == o.PCLSCodeHash &&
		c.PCLSHashType == o.PCLSHashType &&
		c.ThreadToken.Equal(o.ThreadToken)
}
