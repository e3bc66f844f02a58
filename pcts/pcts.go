package pcts

import (
	"github.com/perun-network/perun-ckb-core/ledger"
	"github.com/perun-network/perun-ckb-core/perunchannel"
	"github.com/perun-network/perun-ckb-core/perunerr"
	"github.com/perun-network/perun-ckb-core/perunlog"
)

var log = perunlog.Logger(perunlog.SubsystemPCTS)

// Validate runs PCTS's full set of checks against the transaction ctx
// exposes, returning nil if the transition is one this channel's rules
// permit and a *perunerr.Wrapped error identifying the first violated rule
// otherwise.
//
// Validate never mutates ctx; it is a pure function of the transaction's
// declared shape, so it's safe to call repeatedly (e.g. once per candidate
// witness when building a transaction locally, before ever submitting it).
func Validate(ctx ledger.TxContext) error {
	args := ctx.Args()
	if len(args) == 0 {
		return perunerr.Wrap(perunerr.NoArgs, "pcts script args are empty")
	}
	c, err := perunchannel.DecodeChannelConstants(args)
	if err != nil {
		return err
	}
	if err := verifyChannelParamsCompatibility(c.Params); err != nil {
		return err
	}
	if ctx.GroupInputCount() > 1 || ctx.GroupOutputCount() > 1 {
		return perunerr.Wrap(perunerr.MoreThanOneChannel, "more than one channel cell in this script's execution group")
	}

	in, hasIn, err := ctx.GroupInput()
	if err != nil {
		return err
	}
	out, hasOut, err := ctx.GroupOutput()
	if err != nil {
		return err
	}

	pctsScriptHash := ctx.ScriptHash(ctx.CurrentScript())

	switch {
	case !hasIn && hasOut:
		log.Debug("validating channel start")
		return checkValidStart(ctx, c, out, pctsScriptHash)
	case hasIn && hasOut:
		log.Debug("validating channel progress")
		return checkValidProgress(ctx, c, in, out, pctsScriptHash)
	case hasIn && !hasOut:
		log.Debug("validating channel close")
		return checkValidClose(ctx, c, in)
	default:
		return perunerr.Wrap(perunerr.UnableToLoadAnyChannelStatus, "no channel cell at either the group input or group output")
	}
}

// verifyChannelParamsCompatibility rejects channel kinds this module does
// not implement: non-ledger channels and virtual channels. The wire format
// can represent those two flags, but this version only ever honors plain
// two-party ledger channels. ChannelParameters has no app field, so app
// channels cannot be expressed at all and are not checked here.
func verifyChannelParamsCompatibility(p perunchannel.ChannelParameters) error {
	if !p.IsLedgerChannel {
		return perunerr.Wrap(perunerr.NonLedgerChannelsNotSupported, "channel parameters declare a non-ledger channel")
	}
	if p.IsVirtualChannel {
		return perunerr.Wrap(perunerr.VirtualChannelsNotSupported, "channel parameters declare a virtual channel")
	}
	return nil
}
