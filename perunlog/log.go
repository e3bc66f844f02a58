// Package perunlog wires up per-subsystem loggers the way the teacher's log.go
// does: a single backend and one btclog.Logger per subsystem, which each
// package obtains once by calling Logger with its subsystem tag. Predicates
// log only debug-level traces (which transition is being validated, which
// input satisfied a lock) and never depend on them for their verdict (a
// predicate's only output is its return error); the logs serve offline
// tooling that replays a rejected transaction and wants a narrative of what
// was checked.
package perunlog

import (
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem identifiers, one per package that logs.
const (
	SubsystemPCTS    = "PCTS"
	SubsystemPCLS    = "PCLS"
	SubsystemPFLS    = "PFLS"
	SubsystemHarness = "HRNS"
)

var backendLog = btclog.NewBackend(logWriter{})

// logWriter is the default writer, stdout, until InitLogRotator installs a
// backend that writes to stdout and a rotating file.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

var subsystemLoggers = make(map[string]btclog.Logger)

// Logger returns (creating if necessary) the logger for the given
// subsystem tag, defaulting to btclog.LevelInfo.
func Logger(subsystem string) btclog.Logger {
	if l, ok := subsystemLoggers[subsystem]; ok {
		return l
	}
	l := backendLog.Logger(subsystem)
	l.SetLevel(btclog.LevelInfo)
	subsystemLoggers[subsystem] = l
	return l
}

// SetLevel adjusts the verbosity of a single subsystem at runtime, the way a
// --debuglevel=PCTS=trace flag would in the teacher's daemon.
func SetLevel(subsystem string, level btclog.Level) {
	Logger(subsystem).SetLevel(level)
}

// rotatingLog, once non-nil, is the file rotator InitLogRotator installed;
// closing it on shutdown flushes any buffered log lines.
var rotatingLog *rotator.Rotator

// InitLogRotator initializes a rotating file logger at logFile, rolling over
// once it exceeds maxSizeKB kilobytes, keeping at most maxFiles rotated
// copies. Subsequent log lines from every subsystem go to both stdout and
// the rotated file.
func InitLogRotator(logFile string, maxSizeKB, maxFiles int) error {
	r, err := rotator.New(logFile, int64(maxSizeKB), false, maxFiles)
	if err != nil {
		return err
	}
	rotatingLog = r
	backendLog = btclog.NewBackend(multiWriter{os.Stdout, r})
	for name := range subsystemLoggers {
		l := backendLog.Logger(name)
		l.SetLevel(subsystemLoggers[name].Level())
		subsystemLoggers[name] = l
	}
	return nil
}

// multiWriter fans out each Write to every underlying writer, stopping at
// the first error.
type multiWriter []interface {
	Write([]byte) (int, error)
}

func (m multiWriter) Write(p []byte) (int, error) {
	for _, w := range m {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
