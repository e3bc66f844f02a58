package perunchannel

import (
	"bytes"
	"io"
)

// ChannelToken pins the single thread-token cell a channel's Start
// transaction must consume as an input, the same way a UTXO input proves
// exclusive spend authority. Since an out point can be spent only once, no
// second channel with the same constants can ever be started.
type ChannelToken struct {
	OutPoint OutPoint
}

// Equal reports whether two tokens pin the same cell.
func (t ChannelToken) Equal(o ChannelToken) bool {
	return t.OutPoint.Equal(o.OutPoint)
}

func encodeChannelToken(buf *bytes.Buffer, t ChannelToken) error {
	buf.Write(t.OutPoint.TxHash[:])
	var scratch [8]byte
	idx := t.OutPoint.Index
	return eUint32(buf, &idx, &scratch)
}

func decodeChannelToken(r *bytes.Reader) (ChannelToken, error) {
	var t ChannelToken
	if _, err := io.ReadFull(r, t.OutPoint.TxHash[:]); err != nil {
		return t, err
	}
	var scratch [8]byte
	if err := dUint32(r, &t.OutPoint.Index, &scratch, 4); err != nil {
		return t, err
	}
	return t, nil
}
