// Package perunerr defines the single-byte error taxonomy the PCTS, PCLS,
// and PFLS predicates report to the host ledger. A predicate returns either a
// bare Code or a *Wrapped error carrying one, but the ledger only ever
// observes the exit code, so Code is the one thing that has to round-trip
// correctly.
package perunerr

import "fmt"

// Code is the exit status a predicate surfaces to the host ledger. The
// numbering starts at 1 so the zero value is reserved for "no error" and can
// never be confused with a real taxonomy entry.
type Code uint8

const (
	// System/format errors, surfaced by the ledger accessor layer itself.
	IndexOutOfBound Code = iota + 1
	ItemMissing
	LengthNotEnough
	Encoding
	TotalSizeNotMatch
	HeaderIsBroken
	UnknownItem
	OffsetsNotMatch
	FieldCountNotMatch

	// Argument/shape errors.
	NoArgs
	NoWitness
	PCLSWithArgs
	MoreThanOneChannel
	UnableToLoadAnyChannelStatus

	// Channel-parameter compatibility errors (PCTS pre-check on every call).
	AppChannelsNotSupported
	NonLedgerChannelsNotSupported
	VirtualChannelsNotSupported

	// Invariant/state errors.
	ChannelIdMismatch
	VersionNumberNotIncreasing
	StateIsFinal
	StateNotFinal
	ChannelStateNotEqual
	SumOfBalancesNotEqual
	ChannelDoesNotContinue
	StatusDisputed
	StatusNotDisputed
	StateIsFunded
	ChannelNotFunded
	FundedBitStatusNotCorrect
	FundingChanged
	FundingNotInStatus
	FundingNotZero
	OwnFundingNotInOutputs
	InvalidPFLSInOutputs
	FundsInInputs
	StartWithNonZeroVersion
	StartWithFinalizedState
	BalanceBelowPFLSMinCapacity

	// Identity/crypto errors.
	InvalidThreadToken
	InvalidChannelId
	NotParticipant
	SignatureVerificationError
	SamePaymentAddress
	InvalidPCLSCodeHash
	InvalidPCLSHashType

	// Lifecycle mis-witness errors: the witness variant doesn't match the
	// (input, output) shape of the transaction at this script's group.
	ChannelFundWithoutChannelOutput
	ChannelDisputeWithoutChannelOutput
	ChannelCloseWithChannelOutput
	ChannelForceCloseWithChannelOutput
	ChannelAbortWithChannelOutput

	// Payout/time errors.
	NotAllPayed
	TimeLockNotExpired
	TypeScriptInPaymentOutput
	TypeScriptInPFLSOutput
	InvalidSUDT
	InvalidSUDTDataLength
	PCTSNotFound
)

var names = map[Code]string{
	IndexOutOfBound:               "index out of bound",
	ItemMissing:                   "item missing",
	LengthNotEnough:               "length not enough",
	Encoding:                      "encoding error",
	TotalSizeNotMatch:             "total size does not match header",
	HeaderIsBroken:                "molecule header is broken",
	UnknownItem:                   "unknown item in molecule table",
	OffsetsNotMatch:               "molecule offsets do not match",
	FieldCountNotMatch:            "molecule field count does not match",
	NoArgs:                        "script args missing",
	NoWitness:                     "witness missing",
	PCLSWithArgs:                  "PCLS invoked with non-empty args",
	MoreThanOneChannel:            "more than one channel cell in group",
	UnableToLoadAnyChannelStatus:  "neither group input nor group output carries a channel status",
	AppChannelsNotSupported:       "channel apps are not supported",
	NonLedgerChannelsNotSupported: "non-ledger channels are not supported",
	VirtualChannelsNotSupported:   "virtual channels are not supported",
	ChannelIdMismatch:             "channel id mismatch",
	VersionNumberNotIncreasing:    "state version is not strictly increasing",
	StateIsFinal:                  "state is marked final",
	StateNotFinal:                 "state is not marked final",
	ChannelStateNotEqual:          "channel state changed when it must not",
	SumOfBalancesNotEqual:         "sum of balances changed",
	ChannelDoesNotContinue:        "channel cell does not continue under the same lock",
	StatusDisputed:                "channel status is already disputed",
	StatusNotDisputed:             "channel status is not disputed",
	StateIsFunded:                 "channel is already funded",
	ChannelNotFunded:              "channel is not funded",
	FundedBitStatusNotCorrect:     "funded bit does not match funding completeness",
	FundingChanged:                "funding changed outside of a Fund transition",
	FundingNotInStatus:            "funding not reflected in channel status",
	FundingNotZero:                "funding expected to be zero is not",
	OwnFundingNotInOutputs:        "funder's contribution not fully present in outputs",
	InvalidPFLSInOutputs:          "a PFLS output does not carry this channel's script hash",
	FundsInInputs:                 "a PFLS-locked cell appears in the transaction inputs",
	StartWithNonZeroVersion:       "channel started with non-zero version",
	StartWithFinalizedState:       "channel started with a final state",
	BalanceBelowPFLSMinCapacity:   "initial balance below PFLS minimum capacity",
	InvalidThreadToken:            "thread token outpoint not consumed",
	InvalidChannelId:              "channel id is not the hash of its parameters",
	NotParticipant:                "no registered participant input present",
	SignatureVerificationError:    "signature verification failed",
	SamePaymentAddress:            "both parties share a payment address",
	InvalidPCLSCodeHash:           "channel output not locked by the configured PCLS code hash",
	InvalidPCLSHashType:           "channel output not locked by the configured PCLS hash type",
	ChannelFundWithoutChannelOutput:   "Fund witness used without a continuing channel output",
	ChannelDisputeWithoutChannelOutput: "Dispute witness used without a continuing channel output",
	ChannelCloseWithChannelOutput:      "Close witness used with a continuing channel output",
	ChannelForceCloseWithChannelOutput: "ForceClose witness used with a continuing channel output",
	ChannelAbortWithChannelOutput:      "Abort witness used with a continuing channel output",
	NotAllPayed:                   "a party was not paid its required balance",
	TimeLockNotExpired:            "challenge duration has not elapsed",
	TypeScriptInPaymentOutput:     "unexpected type script on a payment output",
	TypeScriptInPFLSOutput:        "PFLS output's type script is not a recognized SUDT asset",
	InvalidSUDT:                   "SUDT output does not match the channel's asset list",
	InvalidSUDTDataLength:         "SUDT cell data shorter than 16 bytes",
	PCTSNotFound:                  "no input carries the configured PCTS type hash",
}

// Error implements the error interface, so a Code can be returned directly
// from a predicate's entry point.
func (c Code) Error() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("perunerr: unknown code %d", uint8(c))
}
