package perunchannel

import (
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/tlv"
)

// The functions in this file are tlv.Encoder/tlv.Decoder implementations for
// the field types perunchannel's records use, following the same shape as
// the teacher's lnwire readElement/writeElement helpers but written to
// github.com/lightningnetwork/lnd/tlv's Encoder/Decoder signatures. The
// record codecs call them directly in field order; no tlv.Stream is built.

func eUint8(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*uint8)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "uint8")
	}
	buf[0] = *v
	_, err := w.Write(buf[:1])
	return err
}

func dUint8(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*uint8)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "uint8", l, 1)
	}
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return err
	}
	*v = buf[0]
	return nil
}

func eUint32(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*uint32)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "uint32")
	}
	binary.LittleEndian.PutUint32(buf[:4], *v)
	_, err := w.Write(buf[:4])
	return err
}

func dUint32(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*uint32)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "uint32", l, 4)
	}
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	*v = binary.LittleEndian.Uint32(buf[:4])
	return nil
}

func eUint64(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*uint64)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "uint64")
	}
	binary.LittleEndian.PutUint64(buf[:8], *v)
	_, err := w.Write(buf[:8])
	return err
}

func dUint64(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*uint64)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "uint64", l, 8)
	}
	if _, err := io.ReadFull(r, buf[:8]); err != nil {
		return err
	}
	*v = binary.LittleEndian.Uint64(buf[:8])
	return nil
}

func eBool(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*bool)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "bool")
	}
	if *v {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	_, err := w.Write(buf[:1])
	return err
}

func dBool(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*bool)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "bool", l, 1)
	}
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return err
	}
	*v = buf[0] != 0
	return nil
}

func eHash(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*chainhash.Hash)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "chainhash.Hash")
	}
	_, err := w.Write(v[:])
	return err
}

func dHash(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*chainhash.Hash)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "chainhash.Hash", l, chainhash.HashSize)
	}
	_, err := io.ReadFull(r, v[:])
	return err
}

// eFixedBytes/dFixedBytes handle a fixed-size byte slice field (e.g. the
// 33-byte SEC1-compressed public key) whose length is known up front.
func eFixedBytes(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*[]byte)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "[]byte")
	}
	_, err := w.Write(*v)
	return err
}

func dFixedBytes(size int) tlv.Decoder {
	return func(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
		v, ok := val.(*[]byte)
		if !ok {
			return tlv.NewTypeForDecodingErr(val, "[]byte", l, uint64(size))
		}
		out := make([]byte, size)
		if _, err := io.ReadFull(r, out); err != nil {
			return err
		}
		*v = out
		return nil
	}
}

// eVarBytes/dVarBytes encode a variable-length byte slice with an explicit
// 4-byte little-endian length prefix, the length-prefixed convention §6 of
// the spec requires for every record.
func eVarBytes(w io.Writer, val interface{}, buf *[8]byte) error {
	v, ok := val.(*[]byte)
	if !ok {
		return tlv.NewTypeForEncodingErr(val, "[]byte")
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(*v)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(*v)
	return err
}

func dVarBytes(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	v, ok := val.(*[]byte)
	if !ok {
		return tlv.NewTypeForDecodingErr(val, "[]byte", l, 0)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return err
	}
	*v = out
	return nil
}

func varBytesSize(b []byte) tlv.SizeFunc {
	return func() uint64 {
		return 4 + uint64(len(b))
	}
}
