package ledger

import (
	"errors"

	"github.com/perun-network/perun-ckb-core/perunchannel"
)

// ErrIndexOutOfBound is returned by Input/Output/HeaderTimestamp once the
// requested index runs past the end of the corresponding list, the same
// terminal signal a CKB script gets back from load_cell/load_header once it
// walks off the end of a source. Callers that want to enumerate every cell
// of a kind loop until they see this error rather than pre-reading a count.
var ErrIndexOutOfBound = errors.New("ledger: index out of bound")

// Action classifies a transaction's effect on the channel cell, derived from
// whether a channel cell is present at the group input slot, the group
// output slot, both, or neither.
type Action uint8

const (
	// ActionStart: no group input, a channel cell at the group output.
	ActionStart Action = iota
	// ActionProgress: a channel cell at both the group input and output.
	ActionProgress
	// ActionClose: a channel cell at the group input, none at the output.
	ActionClose
)

// TxContext is the narrow accessor surface PCTS, PCLS, and PFLS consume, the
// Go analogue of the syscalls a CKB script has available: its own args, the
// channel cell at the group input/output slot (if any), indexed access to
// every input and output cell in the transaction, the witness attached to
// the group input, and the timestamps of the headers backing each input
// cell and each header dependency. No implementation here talks to a live
// chain; internal/harness builds an in-memory one for tests.
type TxContext interface {
	// Args returns the currently-executing script's args (ChannelConstants
	// for PCTS, empty for PCLS, PFLSArgs for PFLS).
	Args() []byte

	// CurrentScript returns the full code hash, hash type, and args of
	// the currently-executing script, the value load_script() returns.
	// PCTS uses this to compute its own script hash, the value funding
	// cells must reference in their args to prove they belong to this
	// channel and no other.
	CurrentScript() Script

	// GroupInput returns the cell at the group input slot — the one cell
	// among the transaction's inputs that carries this exact script as
	// its lock or type script — and whether one is present. A group input
	// cell is always also an ordinary transaction input, so its position
	// is available through GroupInputIndex.
	GroupInput() (Cell, bool, error)

	// GroupOutput returns the cell at the group output slot and whether
	// one is present, mirroring GroupInput.
	GroupOutput() (Cell, bool, error)

	// GroupInputIndex reports the position of the group input cell within
	// the Input(i) enumeration, and whether a group input exists at all.
	// Accessors keyed by input index (HeaderTimestamp) need this instead
	// of assuming the channel cell always sits at index 0.
	GroupInputIndex() (int, bool)

	// GroupInputCount and GroupOutputCount report how many cells in the
	// transaction are associated with this script's execution group. A
	// conformant TxContext never returns more than 1 for either — CKB
	// itself only ever runs a script once per distinct script hash,
	// collapsing every cell that shares it into a single group — but PCTS
	// checks these explicitly rather than assuming the host enforces it,
	// so a host implementation that got this wrong is caught rather than
	// silently trusted.
	GroupInputCount() int
	GroupOutputCount() int

	// Input returns the i-th cell among the transaction's inputs,
	// reporting ErrIndexOutOfBound once i runs past the last input.
	Input(i int) (Cell, error)

	// Output returns the i-th cell among the transaction's outputs,
	// reporting ErrIndexOutOfBound once i runs past the last output.
	Output(i int) (Cell, error)

	// InputCount and OutputCount report how many cells Input/Output will
	// serve before returning ErrIndexOutOfBound.
	InputCount() int
	OutputCount() int

	// Witness returns the witness attached to the group input, decoded
	// into a ChannelWitness. PCTS calls this during Progress and Close;
	// PCLS and PFLS never need a witness.
	Witness() (perunchannel.ChannelWitness, error)

	// HeaderTimestamp returns the timestamp, in seconds, of the block
	// that committed the i-th input cell.
	HeaderTimestamp(inputIndex int) (uint64, error)

	// HeaderDepTimestamps returns the timestamps of every header the
	// transaction declares as a dependency, in declaration order. A
	// ForceClose witness uses the maximum of these as "now" when
	// checking the challenge window has expired.
	HeaderDepTimestamps() ([]uint64, error)

	// ScriptHash returns the hash a script would have if it were loaded
	// as a lock or type script, the same value load_script_hash()
	// returns for the currently-executing script.
	ScriptHash(Script) Hash
}

// Hash is the 32-byte script-hash / channel-id type every accessor deals in.
type Hash = perunchannel.Hash
