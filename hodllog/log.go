// Package hodllog wires up the per-subsystem btclog.Logger instances shared
// across hodlvoice, writing through a jrick/logrotate rotator. Grounded on
// daemon/log.go's backend/sub-logger wiring, minus the "build" helper
// package (not part of this module) — Get below inlines the one piece of
// that helper every subsystem needs.
package hodllog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// backendLog is the logging backend every subsystem logger is created from.
// Output written through it before InitLogRotator runs is dropped.
var backendLog = btclog.NewBackend(logWriter{})

var rotatorPipe *io.PipeWriter

// logWriter adapts the rotator pipe to the io.Writer btclog.NewBackend
// wants, and is safe to construct before the pipe exists: writes before
// InitLogRotator runs are silently dropped, matching the teacher's
// LogWriter semantics.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if rotatorPipe == nil {
		return len(p), nil
	}
	return rotatorPipe.Write(p)
}

// Subsystem identifiers, one per hodlvoice component.
const (
	SubsystemPlugin     = "PLGN" // bootstrap / plugin harness
	SubsystemController = "CTRL" // HTLC controller
	SubsystemReconciler = "RECN" // reconciler task
	SubsystemCleanup    = "CLUP" // cleanup task
	SubsystemRPCServer  = "RPCS" // gRPC service
	SubsystemHostClient = "CRPC" // host-RPC client
	SubsystemStore      = "STOR" // persistent state store
)

var subsystemLoggers = make(map[string]btclog.Logger)

func init() {
	for _, id := range []string{
		SubsystemPlugin, SubsystemController, SubsystemReconciler,
		SubsystemCleanup, SubsystemRPCServer, SubsystemHostClient,
		SubsystemStore,
	} {
		subsystemLoggers[id] = backendLog.Logger(id)
	}
}

// Get returns the logger for subsystem, creating it lazily if it isn't one
// of the well-known subsystems above.
func Get(subsystem string) btclog.Logger {
	if logger, ok := subsystemLoggers[subsystem]; ok {
		return logger
	}
	logger := backendLog.Logger(subsystem)
	subsystemLoggers[subsystem] = logger
	return logger
}

// InitLogRotator initializes the rotating log file at logFile, splitting
// into new files past maxFileSizeKB kilobytes and keeping at most maxFiles
// of them. It must run once, before any meaningful log volume, or earlier
// writes are dropped.
func InitLogRotator(logFile string, maxFileSizeKB, maxFiles int) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("create log directory: %v", err)
	}

	r, err := rotator.New(logFile, int64(maxFileSizeKB*1024), false, maxFiles)
	if err != nil {
		return fmt.Errorf("create log rotator: %v", err)
	}

	pr, pw := io.Pipe()
	go r.Run(pr)
	rotatorPipe = pw

	return nil
}

// SetLevel sets the logging level for the named subsystem. Unknown
// subsystems are created on first use at the given level.
func SetLevel(subsystem, level string) {
	lvl, _ := btclog.LevelFromString(level)
	Get(subsystem).SetLevel(lvl)
}

// SetLevels sets every known subsystem's level in one call, used at
// startup from the plugin's log-level config option.
func SetLevels(level string) {
	for id := range subsystemLoggers {
		SetLevel(id, level)
	}
}
