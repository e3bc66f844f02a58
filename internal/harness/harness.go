// Package harness provides an in-memory ledger.TxContext implementation for
// exercising PCTS, PCLS, and PFLS without a real chain: a fixture transaction
// is built field by field, then handed to the predicate under test exactly
// as a host ledger would. Header timestamps are plain values set through
// WithInputHeaderTimes/WithDepHeaderTimes, so ForceClose's time-lock
// arithmetic is tested without real wall-clock waits. The fixture also
// carries a Clock field, which nothing in this package reads.
package harness

import (
	"github.com/lightningnetwork/lnd/clock"
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/peruncrypto"
	"github.com/perun-network/perun-ckb-core/perunchannel"
)

// MemContext is an in-memory ledger.TxContext fixture. Zero value is usable;
// populate its fields directly or through the With* builder methods, which
// return the receiver to allow chaining.
type MemContext struct {
	ScriptArgs      []byte
	Script          ledger.Script
	GroupInputCell  *ledger.Cell
	GroupOutputCell *ledger.Cell
	Inputs          []ledger.Cell
	Outputs         []ledger.Cell
	WitnessBytes    []byte
	InputHeaderTime []uint64
	DepHeaderTimes  []uint64

	// groupInputIdx is the position WithGroupInput recorded the group
	// input cell at within Inputs, valid only when GroupInputCell != nil.
	groupInputIdx int

	Clock clock.Clock
}

// New returns an empty fixture with a real-time clock; tests that need
// deterministic timestamps should set Clock to clock.NewTestClock(t0)
// themselves and derive InputHeaderTime/DepHeaderTimes from it.
func New() *MemContext {
	return &MemContext{Clock: clock.NewDefaultClock()}
}

func (m *MemContext) WithArgs(b []byte) *MemContext {
	m.ScriptArgs = b
	return m
}

func (m *MemContext) WithScript(s ledger.Script) *MemContext {
	m.Script = s
	return m
}

// WithGroupInput sets the channel cell under test as the group input. A
// group input cell is always also an ordinary transaction input (the same
// way CKB's Source::GroupInput is a filtered view over Source::Input), so
// this also appends c to Inputs and records its position for
// GroupInputIndex.
func (m *MemContext) WithGroupInput(c ledger.Cell) *MemContext {
	m.GroupInputCell = &c
	m.groupInputIdx = len(m.Inputs)
	m.Inputs = append(m.Inputs, c)
	return m
}

func (m *MemContext) WithGroupOutput(c ledger.Cell) *MemContext {
	m.GroupOutputCell = &c
	return m
}

func (m *MemContext) WithInputs(cells ...ledger.Cell) *MemContext {
	m.Inputs = append(m.Inputs, cells...)
	return m
}

func (m *MemContext) WithOutputs(cells ...ledger.Cell) *MemContext {
	m.Outputs = append(m.Outputs, cells...)
	return m
}

func (m *MemContext) WithWitness(w perunchannel.ChannelWitness) *MemContext {
	b, err := perunchannel.EncodeChannelWitness(w)
	if err != nil {
		panic(err)
	}
	m.WitnessBytes = b
	return m
}

func (m *MemContext) WithInputHeaderTimes(t ...uint64) *MemContext {
	m.InputHeaderTime = t
	return m
}

func (m *MemContext) WithDepHeaderTimes(t ...uint64) *MemContext {
	m.DepHeaderTimes = t
	return m
}

func (m *MemContext) Args() []byte { return m.ScriptArgs }

func (m *MemContext) CurrentScript() ledger.Script { return m.Script }

func (m *MemContext) GroupInput() (ledger.Cell, bool, error) {
	if m.GroupInputCell == nil {
		return ledger.Cell{}, false, nil
	}
	return *m.GroupInputCell, true, nil
}

func (m *MemContext) GroupOutput() (ledger.Cell, bool, error) {
	if m.GroupOutputCell == nil {
		return ledger.Cell{}, false, nil
	}
	return *m.GroupOutputCell, true, nil
}

func (m *MemContext) Input(i int) (ledger.Cell, error) {
	if i < 0 || i >= len(m.Inputs) {
		return ledger.Cell{}, ledger.ErrIndexOutOfBound
	}
	return m.Inputs[i], nil
}

func (m *MemContext) Output(i int) (ledger.Cell, error) {
	if i < 0 || i >= len(m.Outputs) {
		return ledger.Cell{}, ledger.ErrIndexOutOfBound
	}
	return m.Outputs[i], nil
}

func (m *MemContext) InputCount() int  { return len(m.Inputs) }
func (m *MemContext) OutputCount() int { return len(m.Outputs) }

func (m *MemContext) GroupInputIndex() (int, bool) {
	if m.GroupInputCell == nil {
		return 0, false
	}
	return m.groupInputIdx, true
}

func (m *MemContext) GroupInputCount() int {
	if m.GroupInputCell == nil {
		return 0
	}
	return 1
}

func (m *MemContext) GroupOutputCount() int {
	if m.GroupOutputCell == nil {
		return 0
	}
	return 1
}

func (m *MemContext) Witness() (perunchannel.ChannelWitness, error) {
	return perunchannel.DecodeChannelWitness(m.WitnessBytes)
}

func (m *MemContext) HeaderTimestamp(inputIndex int) (uint64, error) {
	if inputIndex < 0 || inputIndex >= len(m.InputHeaderTime) {
		return 0, ledger.ErrIndexOutOfBound
	}
	return m.InputHeaderTime[inputIndex], nil
}

func (m *MemContext) HeaderDepTimestamps() ([]uint64, error) {
	return m.DepHeaderTimes, nil
}

// ScriptHash hashes s the way a host ledger's script-hash syscall would: a
// deterministic digest of its code hash, hash type, and args. Any collision
// resistant combination works for a fixture; production values come from
// whatever hashing convention the host ledger actually uses.
func (m *MemContext) ScriptHash(s ledger.Script) ledger.Hash {
	return HashScript(s)
}

// HashScript is exported so test fixtures can precompute the script hash a
// funding or payment cell's lock/type args must reference.
func HashScript(s ledger.Script) ledger.Hash {
	var buf []byte
	buf = append(buf, s.CodeHash[:]...)
	buf = append(buf, byte(s.HashType))
	buf = append(buf, s.Args...)
	return peruncrypto.ChannelHash(buf)
}
