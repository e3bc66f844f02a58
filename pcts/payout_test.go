package pcts_test

import (
	"testing"

	"github.com/perun-network/perun-ckb-core/internal/harness"
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/pcts"
	"github.com/perun-network/perun-ckb-core/perunchannel"
)

// sudtAmountBytes encodes v as the 16-byte little-endian SUDT cell data
// getSUDTAmount expects, for amounts that fit in a uint64.
func sudtAmountBytes(v uint64) []byte {
	b := make([]byte, 16)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func TestValidateCloseSplitsSUDTBetweenParties(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	var assetCode ledger.Hash
	assetCode[0] = 0x77
	assetScript := ledger.Script{CodeHash: assetCode, HashType: ledger.HashTypeData}
	assetHash := harness.HashScript(assetScript)
	asset := perunchannel.AssetDescriptor{TypeScriptHash: assetHash, MaxCapacity: 142_00000000}

	oldState := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   1,
		Balances: perunchannel.Balances{
			CKBytes: [2]perunchannel.CKBytes{40_00000000, 60_00000000},
			SUDTs: []perunchannel.SUDTBalances{
				{Asset: asset, Distribution: [2]perunchannel.U128{
					perunchannel.U128FromUint64(1000),
					perunchannel.U128FromUint64(2000),
				}},
			},
		},
	}
	oldStatus := perunchannel.ChannelStatus{State: oldState, Funded: true}
	oldBytes, err := oldStatus.AsSlice()
	if err != nil {
		t.Fatalf("oldStatus.AsSlice: %v", err)
	}

	finalState := oldState
	finalState.Version = 2
	finalState.IsFinal = true

	argsBytes, err := c.AsSlice()
	if err != nil {
		t.Fatalf("constants.AsSlice: %v", err)
	}
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	witness := signedCloseWitness(t, keys, finalState)

	// Both parties are reimbursed the capacity the SUDT cell tied up, on
	// top of their own native-asset share.
	payoutA := ledger.Cell{
		Lock:     paymentScript(0xA0),
		Capacity: uint64(40_00000000 + asset.MaxCapacity),
		Type:     &assetScript,
		Data:     sudtAmountBytes(1000),
	}
	payoutB := ledger.Cell{
		Lock:     paymentScript(0xB0),
		Capacity: uint64(60_00000000 + asset.MaxCapacity),
		Type:     &assetScript,
		Data:     sudtAmountBytes(2000),
	}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithWitness(witness).
		WithOutputs(payoutA, payoutB)

	if err := pcts.Validate(ctx); err != nil {
		t.Fatalf("Validate(close with sudt) = %v, want nil", err)
	}
}

func TestValidateCloseWaivesDustBelowMinCapacity(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	oldState := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   1,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{10_00000000, 90_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: oldState, Funded: true}
	oldBytes, err := oldStatus.AsSlice()
	if err != nil {
		t.Fatalf("oldStatus.AsSlice: %v", err)
	}

	finalState := oldState
	finalState.Version = 2
	finalState.IsFinal = true

	argsBytes, err := c.AsSlice()
	if err != nil {
		t.Fatalf("constants.AsSlice: %v", err)
	}
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	witness := signedCloseWitness(t, keys, finalState)

	// Party A's 10 CKBytes owed never reaches PaymentMinCapacity (61), so
	// it's waived entirely: no payout output for party A is required.
	payoutB := ledger.Cell{Lock: paymentScript(0xB0), Capacity: uint64(finalState.Balances.CKBytes[1])}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithWitness(witness).
		WithOutputs(payoutB)

	if err := pcts.Validate(ctx); err != nil {
		t.Fatalf("Validate(close with dust-exempt party A) = %v, want nil", err)
	}
}

func TestValidateFundRejectsUntrackedTypeScript(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   0,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{100_00000000, 50_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: false}
	newStatus := perunchannel.ChannelStatus{State: state, Funded: true}
	oldBytes, err := oldStatus.AsSlice()
	if err != nil {
		t.Fatalf("oldStatus.AsSlice: %v", err)
	}
	newBytes, err := newStatus.AsSlice()
	if err != nil {
		t.Fatalf("newStatus.AsSlice: %v", err)
	}

	argsBytes, err := c.AsSlice()
	if err != nil {
		t.Fatalf("constants.AsSlice: %v", err)
	}
	script := pctsScript(argsBytes)
	pctsHash := harness.HashScript(script)
	lock := ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)}

	channelIn := ledger.Cell{Lock: lock, Type: &script, Data: oldBytes}
	channelOut := ledger.Cell{Lock: lock, Type: &script, Data: newBytes}

	var rogueCode ledger.Hash
	rogueCode[0] = 0x99
	rogueType := ledger.Script{CodeHash: rogueCode, HashType: ledger.HashTypeData}

	// This channel declares no SUDT assets, so any type script on a funds
	// lock output is untracked.
	fundingCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PFLSCodeHash, HashType: ledger.HashType(c.PFLSHashType), Args: pctsHash[:]},
		Type:     &rogueType,
		Capacity: uint64(state.Balances.CKBytes[1]),
		Data:     sudtAmountBytes(1),
	}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelIn).
		WithGroupOutput(channelOut).
		WithOutputs(fundingCell).
		WithWitness(perunchannel.NewFundWitness())

	if err := pcts.Validate(ctx); err == nil {
		t.Fatalf("expected error funding with an untracked type script")
	}
}

func TestValidateCloseRejectsUntrackedPayoutTypeScript(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	oldState := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   1,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{40_00000000, 60_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: oldState, Funded: true}
	oldBytes, err := oldStatus.AsSlice()
	if err != nil {
		t.Fatalf("oldStatus.AsSlice: %v", err)
	}

	finalState := oldState
	finalState.Version = 2
	finalState.IsFinal = true

	argsBytes, err := c.AsSlice()
	if err != nil {
		t.Fatalf("constants.AsSlice: %v", err)
	}
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	witness := signedCloseWitness(t, keys, finalState)

	var rogueCode ledger.Hash
	rogueCode[0] = 0x99
	rogueType := ledger.Script{CodeHash: rogueCode, HashType: ledger.HashTypeData}

	payoutA := ledger.Cell{
		Lock:     paymentScript(0xA0),
		Capacity: uint64(finalState.Balances.CKBytes[0]),
		Type:     &rogueType,
		Data:     sudtAmountBytes(1),
	}
	payoutB := ledger.Cell{Lock: paymentScript(0xB0), Capacity: uint64(finalState.Balances.CKBytes[1])}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithWitness(witness).
		WithOutputs(payoutA, payoutB)

	if err := pcts.Validate(ctx); err == nil {
		t.Fatalf("expected error for a payout output carrying an untracked type script")
	}
}
