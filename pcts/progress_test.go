package pcts_test

import (
	"testing"

	"github.com/perun-network/perun-ckb-core/internal/harness"
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/pcts"
	"github.com/perun-network/perun-ckb-core/perunchannel"
)

func TestValidateFundCompletesFunding(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   0,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{100_00000000, 50_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: false, Disputed: false}
	newStatus := perunchannel.ChannelStatus{State: state, Funded: true, Disputed: false}
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

	// Fund is always driven by the party that didn't fund at Start, party B.
	fundingCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PFLSCodeHash, HashType: ledger.HashType(c.PFLSHashType), Args: pctsHash[:]},
		Capacity: uint64(state.Balances.CKBytes[1]),
	}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelIn).
		WithGroupOutput(channelOut).
		WithOutputs(fundingCell).
		WithWitness(perunchannel.NewFundWitness())

	if err := pcts.Validate(ctx); err != nil {
		t.Fatalf("Validate(fund) = %v, want nil", err)
	}
}

func TestValidateFundRejectsAlreadyFunded(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   0,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{100_00000000, 50_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: true}
	newStatus := perunchannel.ChannelStatus{State: state, Funded: true}
	oldBytes, _ := oldStatus.AsSlice()
	newBytes, _ := newStatus.AsSlice()

	argsBytes, _ := c.AsSlice()
	script := pctsScript(argsBytes)
	lock := ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)}

	channelIn := ledger.Cell{Lock: lock, Type: &script, Data: oldBytes}
	channelOut := ledger.Cell{Lock: lock, Type: &script, Data: newBytes}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelIn).
		WithGroupOutput(channelOut).
		WithWitness(perunchannel.NewFundWitness())

	if err := pcts.Validate(ctx); err == nil {
		t.Fatalf("expected error funding an already-funded channel")
	}
}

func TestValidateAbortPaysOnlyPartyA(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   0,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{100_00000000, 0}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: false}
	oldBytes, _ := oldStatus.AsSlice()

	argsBytes, _ := c.AsSlice()
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	payoutA := ledger.Cell{Lock: paymentScript(0xA0), Capacity: uint64(state.Balances.CKBytes[0])}

	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithWitness(perunchannel.NewAbortWitness()).
		WithOutputs(payoutA)

	if err := pcts.Validate(ctx); err != nil {
		t.Fatalf("Validate(abort) = %v, want nil", err)
	}
}

func TestValidateForceCloseAfterTimeLockExpires(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   3,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{60_00000000, 40_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: true, Disputed: true}
	oldBytes, _ := oldStatus.AsSlice()

	argsBytes, _ := c.AsSlice()
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	payoutA := ledger.Cell{Lock: paymentScript(0xA0), Capacity: uint64(state.Balances.CKBytes[0])}
	payoutB := ledger.Cell{Lock: paymentScript(0xB0), Capacity: uint64(state.Balances.CKBytes[1])}

	// ChallengeDuration is 100 in baseConstants; a dispute committed at
	// timestamp 1000 has its window end at 1100.
	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithInputHeaderTimes(1000).
		WithDepHeaderTimes(1101).
		WithWitness(perunchannel.NewForceCloseWitness()).
		WithOutputs(payoutA, payoutB)

	if err := pcts.Validate(ctx); err != nil {
		t.Fatalf("Validate(force-close) = %v, want nil", err)
	}
}

func TestValidateForceCloseRejectsBeforeTimeLockExpires(t *testing.T) {
	keys := newFixtureKeys()
	c := baseConstants(keys)
	channelID, _ := c.Params.ChannelID()

	state := perunchannel.ChannelState{
		ChannelID: channelID,
		Version:   3,
		Balances:  perunchannel.Balances{CKBytes: [2]perunchannel.CKBytes{60_00000000, 40_00000000}},
	}
	oldStatus := perunchannel.ChannelStatus{State: state, Funded: true, Disputed: true}
	oldBytes, _ := oldStatus.AsSlice()

	argsBytes, _ := c.AsSlice()
	script := pctsScript(argsBytes)

	channelCell := ledger.Cell{
		Lock:     ledger.Script{CodeHash: c.PCLSCodeHash, HashType: ledger.HashType(c.PCLSHashType)},
		Type:     &script,
		Data:     oldBytes,
		Capacity: 0,
	}

	payoutA := ledger.Cell{Lock: paymentScript(0xA0), Capacity: uint64(state.Balances.CKBytes[0])}
	payoutB := ledger.Cell{Lock: paymentScript(0xB0), Capacity: uint64(state.Balances.CKBytes[1])}

	// now (1050) has not yet reached the dispute's 1100 window end.
	ctx := harness.New().
		WithArgs(argsBytes).
		WithScript(script).
		WithGroupInput(channelCell).
		WithInputHeaderTimes(1000).
		WithDepHeaderTimes(1050).
		WithWitness(perunchannel.NewForceCloseWitness()).
		WithOutputs(payoutA, payoutB)

	if err := pcts.Validate(ctx); err == nil {
		t.Fatalf("expected error force-closing before the challenge window ends")
	}
}
