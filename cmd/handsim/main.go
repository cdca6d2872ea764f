package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/evergreen/internal/handsim"
)

// Default configuration constants.
const (
	defaultDuration    = 20 * time.Second
	defaultRepeatEvery = 7
	defaultTimeout     = 5 * time.Second
	runSlack           = time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		duration = flag.Duration("duration", defaultDuration, "How long to replay")
		fps      = flag.Int("fps", handsim.DefaultFPS, "Samples per second")
		repeat   = flag.Int("repeat", defaultRepeatEvery, "Resend the previous frame timestamp every n samples (0 disables)")
		seed     = flag.Int64("seed", 1, "Jitter seed")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for run output (default: handsim_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Print the scene mode as it changes")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		handsim.ShowHelp()
		return
	}

	if err := handsim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration+runSlack)
	defer cancel()

	config := &handsim.Config{
		BaseURL:     *baseURL,
		Duration:    *duration,
		FPS:         *fps,
		RepeatEvery: *repeat,
		Timeout:     *timeout,
		Seed:        *seed,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	if err := handsim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
