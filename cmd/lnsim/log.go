package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/htlcswitch"
	"github.com/lightningnetwork/lnsim/orchestrator"
	"github.com/lightningnetwork/lnsim/routing"
	"github.com/lightningnetwork/lnsim/seed"
)

// logWriter implements an io.Writer that outputs to both standard output
// and the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotatorPipe != nil {
		logRotatorPipe.Write(p)
	}
	return len(p), nil
}

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers. The backend must not be used before the log rotator has
	// been initialized, or data races and/or nil pointer dereferences
	// will occur.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs. It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	// logRotatorPipe is the write-end pipe to the log rotator.
	logRotatorPipe *io.PipeWriter

	lsimLog = backendLog.Logger("LSIM")
	grphLog = backendLog.Logger("GRPH")
	seedLog = backendLog.Logger("SEED")
	rtngLog = backendLog.Logger("RTNG")
	swchLog = backendLog.Logger("SWCH")
	orchLog = backendLog.Logger("ORCH")
)

// Initialize package-global logger variables.
func init() {
	graph.UseLogger(grphLog)
	seed.UseLogger(seedLog)
	routing.UseLogger(rtngLog)
	htlcswitch.UseLogger(swchLog)
	orchestrator.UseLogger(orchLog)
}

// subsystemLoggers maps each subsystem identifier to its associated
// logger.
var subsystemLoggers = map[string]btclog.Logger{
	"LSIM": lsimLog,
	"GRPH": grphLog,
	"SEED": seedLog,
	"RTNG": rtngLog,
	"SWCH": swchLog,
	"ORCH": orchLog,
}

// initLogRotator initializes the logging rotator to write logs to
// logFile and create roll files in the same directory. It must be called
// before the package-global log rotator variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %v", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %v", err)
	}

	pr, pw := io.Pipe()
	go r.Run(pr)

	logRotator = r
	logRotatorPipe = pw
	return nil
}

// setLogLevels sets the log level for every subsystem logger.
func setLogLevels(logLevel string) error {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid log level %v", logLevel)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
