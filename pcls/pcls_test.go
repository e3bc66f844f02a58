package pcls_test

import (
	"testing"

	"github.com/perun-network/perun-ckb-core/internal/harness"
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/pcls"
	"github.com/perun-network/perun-ckb-core/perunchannel"
)

func sampleParams() perunchannel.ChannelParameters {
	var unlockA, unlockB, paymentA, paymentB ledger.Hash
	unlockA[0] = 0xA1
	unlockB[0] = 0xB1
	paymentA[0] = 0xA0
	paymentB[0] = 0xB0
	return perunchannel.ChannelParameters{
		PartyA:          perunchannel.Participant{UnlockScriptHash: unlockA, PaymentScriptHash: paymentA},
		PartyB:          perunchannel.Participant{UnlockScriptHash: unlockB, PaymentScriptHash: paymentB},
		IsLedgerChannel: true,
	}
}

// pctsScriptFor builds the channel cell's type script, whose args carry the
// ChannelConstants PCLS reads its participant unlock hashes from.
func pctsScriptFor(params perunchannel.ChannelParameters) ledger.Script {
	c := perunchannel.ChannelConstants{Params: params}
	argsBytes, err := c.AsSlice()
	if err != nil {
		panic(err)
	}
	var codeHash ledger.Hash
	codeHash[0] = 0x90
	return ledger.Script{CodeHash: codeHash, HashType: ledger.HashTypeData, Args: argsBytes}
}

func TestValidateAcceptsPartyAInput(t *testing.T) {
	params := sampleParams()

	var otherCodeHash ledger.Hash
	otherCodeHash[0] = 0x99
	unrelatedInput := ledger.Cell{Lock: ledger.Script{CodeHash: otherCodeHash}}

	// PCLS authorizes an input by the hash of its lock script, not its raw
	// code hash, so the fixture's declared unlock hash must equal what the
	// harness would actually compute for the authorizing input's lock.
	authorizingLock := ledger.Script{CodeHash: params.PartyA.UnlockScriptHash}
	params.PartyA.UnlockScriptHash = harness.HashScript(authorizingLock)
	authorizingInput := ledger.Cell{Lock: authorizingLock}

	script := pctsScriptFor(params)
	channelCell := ledger.Cell{Type: &script}

	ctx := harness.New().
		WithArgs(nil).
		WithGroupInput(channelCell).
		WithInputs(unrelatedInput, authorizingInput)

	if err := pcls.Validate(ctx); err != nil {
		t.Fatalf("Validate = %v, want nil", err)
	}
}

func TestValidateRejectsNoAuthorizingInput(t *testing.T) {
	params := sampleParams()
	script := pctsScriptFor(params)
	channelCell := ledger.Cell{Type: &script}

	var otherCodeHash ledger.Hash
	otherCodeHash[0] = 0x99
	unrelatedInput := ledger.Cell{Lock: ledger.Script{CodeHash: otherCodeHash}}

	ctx := harness.New().
		WithArgs(nil).
		WithGroupInput(channelCell).
		WithInputs(unrelatedInput)

	if err := pcls.Validate(ctx); err == nil {
		t.Fatalf("expected error when no input authorizes the spend")
	}
}

func TestValidateRejectsNonEmptyArgs(t *testing.T) {
	params := sampleParams()
	script := pctsScriptFor(params)
	channelCell := ledger.Cell{Type: &script}

	ctx := harness.New().
		WithArgs([]byte{0x01}).
		WithGroupInput(channelCell)

	err := pcls.Validate(ctx)
	if err == nil {
		t.Fatalf("expected error for non-empty pcls args")
	}
}
