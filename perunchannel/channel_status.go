package perunchannel

import (
	"bytes"

	"github.com/perun-network/perun-ckb-core/perunerr"
)

// ChannelStatus is the record a channel cell actually carries as its cell
// data: the last-agreed state plus two sticky bits. Funded latches true the
// first moment the channel is fully collateralized and never resets; once
// set, every later Dispute must keep it true. Disputed latches true the
// moment a Dispute witness is accepted; after that only a further Dispute
// with a higher version, ForceClose, or a cooperative Close can follow.
type ChannelStatus struct {
	State    ChannelState
	Funded   bool
	Disputed bool
}

// AsSlice returns the canonical encoding of the status record.
func (s ChannelStatus) AsSlice() ([]byte, error) {
	var buf bytes.Buffer
	stateBytes, err := s.State.AsSlice()
	if err != nil {
		return nil, err
	}
	buf.Write(stateBytes)
	var scratch [8]byte
	funded, disputed := s.Funded, s.Disputed
	if err := eBool(&buf, &funded, &scratch); err != nil {
		return nil, err
	}
	if err := eBool(&buf, &disputed, &scratch); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeChannelStatus parses a channel cell's data blob into a ChannelStatus.
// ChannelState has no length prefix of its own (every field within it is
// either fixed-size or self-describing via its own count prefix), so the
// funded/disputed bits are read directly off the tail of the same buffer.
func DecodeChannelStatus(b []byte) (ChannelStatus, error) {
	var cs ChannelStatus
	state, err := DecodeChannelState(b)
	if err != nil {
		return cs, err
	}
	cs.State = state

	stateBytes, err := state.AsSlice()
	if err != nil {
		return cs, err
	}
	if len(b) < len(stateBytes) {
		return cs, perunerr.Wrap(perunerr.OffsetsNotMatch, "channel status shorter than its own decoded state: %d < %d", len(b), len(stateBytes))
	}
	r := bytes.NewReader(b[len(stateBytes):])
	var scratch [8]byte
	if err := dBool(r, &cs.Funded, &scratch, 1); err != nil {
		return cs, err
	}
	if err := dBool(r, &cs.Disputed, &scratch, 1); err != nil {
		return cs, err
	}
	return cs, nil
}

// Equal reports whether two statuses are identical.
func (s ChannelStatus) Equal(o ChannelStatus) bool {
	return s.State.Equal(o.State) && s.Funded == o.Funded && s.Disputed == o.Disputed
}
