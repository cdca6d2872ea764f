package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/evergreen/internal/adapters/tui"
	service "github.com/okian/evergreen/internal/app"
	"github.com/okian/evergreen/internal/config"
	"github.com/okian/evergreen/internal/handsim"
	"github.com/okian/evergreen/pkg/logger"
)

const (
	logFilePermission = 0o600
	stopTimeout       = 5 * time.Second
)

func main() {
	var (
		logFile  = flag.String("log", "preview.log", "Log file; the terminal is taken by the preview")
		scripted = flag.Bool("scripted", false, "Drive the hand from the synthetic detector instead of the keyboard")
		fov      = flag.Float64("fov", 45, "Vertical field of view in degrees")
	)
	flag.Parse()

	file, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = file.Close() }()
	if err := logger.InitWithWriter(file); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	if *scripted {
		cfg.Detector = config.DetectorSynthetic
	} else {
		cfg.Detector = config.DetectorPush
	}

	if err := run(ctx, cfg, float32(*fov)); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, fov float32) error {
	sess, err := service.New(cfg, service.WithLogger(logger.Get()))
	if err != nil {
		return err
	}
	if err := sess.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = sess.Stop(stopCtx)
	}()

	m := tui.New(ctx, sess, sess.Palette(),
		tui.WithTickInterval(cfg.DetectionInterval()),
		tui.WithScript(handsim.NewScript(handsim.WithJitter(0))),
		tui.WithFOV(fov),
	)
	return tui.Run(ctx, m)
}
