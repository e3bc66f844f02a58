package perunchannel

import (
	"bytes"
	"io"

	"github.com/perun-network/perun-ckb-core/perunerr"
)

// WitnessKind discriminates the ChannelWitness variants. A spending
// transaction's witness for the channel cell's input is one tagged union
// value, never a struct with optional fields, so callers must exhaustively
// switch on Kind before touching any variant-specific field.
type WitnessKind uint8

const (
	// WitnessFund accompanies a Progress transition that adds collateral
	// without otherwise changing the channel's state.
	WitnessFund WitnessKind = iota
	// WitnessDispute accompanies a Progress transition that registers a
	// newer off-chain state on-chain, opening the challenge window.
	WitnessDispute
	// WitnessClose accompanies a Close transition driven by a
	// mutually-signed final state.
	WitnessClose
	// WitnessForceClose accompanies a Close transition driven by the
	// expiry of a Dispute's challenge window.
	WitnessForceClose
	// WitnessAbort accompanies a Close transition for a channel that was
	// never fully funded.
	WitnessAbort
)

// Signature is a DER-encoded ECDSA signature over secp256k1, the form
// peruncrypto.Verify expects.
type Signature []byte

// ChannelWitness is the tagged union of data a transaction's witness for the
// channel cell input supplies, one variant per PCTS transition that needs
// more than the two channel-cell slots themselves to verify.
type ChannelWitness struct {
	Kind WitnessKind

	// Dispute and Close carry both parties' signatures over the new
	// state (Dispute) or the finalized state embedded in Close.
	SigA Signature
	SigB Signature

	// Close carries the finalized state being closed out; Fund, Dispute,
	// ForceClose, and Abort all derive their state from the channel
	// cell's own data instead.
	State ChannelState
}

// NewFundWitness builds a Fund witness.
func NewFundWitness() ChannelWitness { return ChannelWitness{Kind: WitnessFund} }

// NewDisputeWitness builds a Dispute witness carrying both signatures over
// the new state already present in the channel cell's output data.
func NewDisputeWitness(sigA, sigB Signature) ChannelWitness {
	return ChannelWitness{Kind: WitnessDispute, SigA: sigA, SigB: sigB}
}

// NewCloseWitness builds a Close witness carrying the finalized state and
// both parties' signatures over it.
func NewCloseWitness(state ChannelState, sigA, sigB Signature) ChannelWitness {
	return ChannelWitness{Kind: WitnessClose, State: state, SigA: sigA, SigB: sigB}
}

// NewForceCloseWitness builds a ForceClose witness.
func NewForceCloseWitness() ChannelWitness { return ChannelWitness{Kind: WitnessForceClose} }

// NewAbortWitness builds an Abort witness.
func NewAbortWitness() ChannelWitness { return ChannelWitness{Kind: WitnessAbort} }

// EncodeChannelWitness serializes w: a one-byte kind tag followed by the
// variant's fields.
func EncodeChannelWitness(w ChannelWitness) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(w.Kind))
	var scratch [8]byte
	switch w.Kind {
	case WitnessFund, WitnessForceClose, WitnessAbort:
		// no further fields
	case WitnessDispute:
		if err := eVarBytes(&buf, (*[]byte)(&w.SigA), &scratch); err != nil {
			return nil, err
		}
		if err := eVarBytes(&buf, (*[]byte)(&w.SigB), &scratch); err != nil {
			return nil, err
		}
	case WitnessClose:
		stateBytes, err := w.State.AsSlice()
		if err != nil {
			return nil, err
		}
		var lenBuf [4]byte
		writeUint32LE(lenBuf[:], uint32(len(stateBytes)))
		buf.Write(lenBuf[:])
		buf.Write(stateBytes)
		if err := eVarBytes(&buf, (*[]byte)(&w.SigA), &scratch); err != nil {
			return nil, err
		}
		if err := eVarBytes(&buf, (*[]byte)(&w.SigB), &scratch); err != nil {
			return nil, err
		}
	default:
		return nil, perunerr.Wrap(perunerr.UnknownItem, "unknown witness kind %d", w.Kind)
	}
	return buf.Bytes(), nil
}

// DecodeChannelWitness parses the bytes produced by EncodeChannelWitness.
func DecodeChannelWitness(b []byte) (ChannelWitness, error) {
	var w ChannelWitness
	if len(b) < 1 {
		return w, perunerr.Wrap(perunerr.NoWitness, "empty witness")
	}
	w.Kind = WitnessKind(b[0])
	r := bytes.NewReader(b[1:])
	var scratch [8]byte
	switch w.Kind {
	case WitnessFund, WitnessForceClose, WitnessAbort:
	case WitnessDispute:
		var sigA, sigB []byte
		if err := dVarBytes(r, &sigA, &scratch, 0); err != nil {
			return w, err
		}
		if err := dVarBytes(r, &sigB, &scratch, 0); err != nil {
			return w, err
		}
		w.SigA, w.SigB = sigA, sigB
	case WitnessClose:
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return w, perunerr.Wrap(perunerr.HeaderIsBroken, "truncated close witness state length prefix: %v", err)
		}
		n := readUint32LE(lenBuf[:])
		if uint64(n) > uint64(r.Len()) {
			return w, perunerr.Wrap(perunerr.TotalSizeNotMatch, "close witness declares state of %d bytes, only %d remain", n, r.Len())
		}
		stateBytes := make([]byte, n)
		if _, err := io.ReadFull(r, stateBytes); err != nil {
			return w, err
		}
		state, err := DecodeChannelState(stateBytes)
		if err != nil {
			return w, err
		}
		w.State = state
		var sigA, sigB []byte
		if err := dVarBytes(r, &sigA, &scratch, 0); err != nil {
			return w, err
		}
		if err := dVarBytes(r, &sigB, &scratch, 0); err != nil {
			return w, err
		}
		w.SigA, w.SigB = sigA, sigB
	default:
		return w, perunerr.Wrap(perunerr.UnknownItem, "unknown witness kind %d", w.Kind)
	}
	return w, nil
}

func writeUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
