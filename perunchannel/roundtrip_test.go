package perunchannel

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func sampleParticipant(seed byte) Participant {
	var p Participant
	for i := range p.PubKey {
		p.PubKey[i] = seed
	}
	for i := range p.PaymentScriptHash {
		p.PaymentScriptHash[i] = seed + 1
	}
	p.PaymentMinCapacity = CKBytes(61_00000000)
	for i := range p.UnlockScriptHash {
		p.UnlockScriptHash[i] = seed + 2
	}
	return p
}

func sampleParams() ChannelParameters {
	p := ChannelParameters{
		PartyA:            sampleParticipant(0xA0),
		PartyB:            sampleParticipant(0xB0),
		ChallengeDuration: 144,
		IsLedgerChannel:   true,
		IsVirtualChannel:  false,
	}
	for i := range p.Nonce {
		p.Nonce[i] = byte(i)
	}
	return p
}

func TestChannelParametersRoundTrip(t *testing.T) {
	want := sampleParams()
	b, err := want.AsSlice()
	require.NoError(t, err)
	got, err := DecodeChannelParameters(b)
	require.NoError(t, err)
	require.Truef(t, want.Equal(got), "round trip mismatch:\nwant %s\ngot  %s", spew.Sdump(want), spew.Sdump(got))
}

func TestChannelIDDeterministic(t *testing.T) {
	p := sampleParams()
	id1, err := p.ChannelID()
	if err != nil {
		t.Fatalf("ChannelID: %v", err)
	}
	id2, err := p.ChannelID()
	if err != nil {
		t.Fatalf("ChannelID: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("channel id not deterministic: %x != %x", id1, id2)
	}

	p2 := p
	p2.ChallengeDuration++
	id3, err := p2.ChannelID()
	if err != nil {
		t.Fatalf("ChannelID: %v", err)
	}
	if id1 == id3 {
		t.Fatalf("channel id did not change when parameters changed")
	}
}

func TestBalancesRoundTrip(t *testing.T) {
	want := Balances{
		CKBytes: [2]CKBytes{1000, 2000},
		SUDTs: []SUDTBalances{
			{
				Asset: AssetDescriptor{MaxCapacity: 14_200000000},
				Distribution: [2]U128{
					U128FromUint64(500),
					U128FromUint64(1500),
				},
			},
		},
	}
	want.SUDTs[0].Asset.TypeScriptHash[0] = 0x42

	// exercised via ChannelState, the only production caller of the codec.
	state := ChannelState{Balances: want, Version: 3}
	enc, err := state.AsSlice()
	if err != nil {
		t.Fatalf("AsSlice: %v", err)
	}
	got, err := DecodeChannelState(enc)
	if err != nil {
		t.Fatalf("DecodeChannelState: %v", err)
	}
	if !got.Balances.Equal(want) {
		t.Fatalf("balances round trip mismatch:\nwant %+v\ngot  %+v", want, got.Balances)
	}
}

func TestU128Bounds(t *testing.T) {
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, err := NewU128(max); err == nil {
		t.Fatalf("expected error for value at 2^128")
	}
	maxValid := new(big.Int).Sub(max, big.NewInt(1))
	u, err := NewU128(maxValid)
	if err != nil {
		t.Fatalf("NewU128(2^128-1): %v", err)
	}
	le := u.bytesLE()
	got := u128FromLE(le)
	if u.Cmp(got) != 0 {
		t.Fatalf("u128 LE round trip mismatch: %s != %s", u, got)
	}
}

func TestBalancesSumEqual(t *testing.T) {
	a := Balances{CKBytes: [2]CKBytes{100, 200}}
	b := Balances{CKBytes: [2]CKBytes{150, 150}}
	eq, err := a.SumEqual(b)
	if err != nil {
		t.Fatalf("SumEqual: %v", err)
	}
	if !eq {
		t.Fatalf("expected equal sums, 300 == 300")
	}

	c := Balances{CKBytes: [2]CKBytes{100, 201}}
	eq, err = a.SumEqual(c)
	if err != nil {
		t.Fatalf("SumEqual: %v", err)
	}
	if eq {
		t.Fatalf("expected unequal sums, 300 != 301")
	}
}

func TestFullyRepresented(t *testing.T) {
	b := Balances{
		SUDTs: []SUDTBalances{
			{Distribution: [2]U128{U128FromUint64(10), U128FromUint64(20)}},
		},
	}
	if !b.FullyRepresented(1, map[int]U128{0: U128FromUint64(20)}) {
		t.Fatalf("expected fully represented for exact match")
	}
	if b.FullyRepresented(1, map[int]U128{0: U128FromUint64(21)}) {
		t.Fatalf("expected mismatch to be rejected")
	}
	if b.FullyRepresented(1, map[int]U128{}) {
		t.Fatalf("expected missing asset to be rejected")
	}
}
