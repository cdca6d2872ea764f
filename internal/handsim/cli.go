package handsim

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/evergreen/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		logFile = "handsim_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp() {
	os.Stdout.WriteString(`Evergreen Hand Replay
=====================

Streams a scripted hand (circling, opening and closing) to a running engine
started with EVERGREEN_DETECTOR=push.

Usage:
  go run ./cmd/handsim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -duration duration
        How long to replay (default 20s)
  -fps int
        Samples per second (default 30)
  -repeat int
        Resend the previous frame timestamp every n samples (default 7, 0 disables)
  -seed int
        Jitter seed (default 1)
  -timeout duration
        HTTP request timeout (default 5s)
  -log string
        Log file for run output (default: handsim_TIMESTAMP.log)
  -verbose
        Print the scene mode as it changes
  -help
        Show this help message
`)
}
