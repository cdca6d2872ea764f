package handsim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/okian/evergreen/pkg/logger"
)

// sceneCheckInterval is how often the replay samples the scene mode.
const sceneCheckInterval = 500 * time.Millisecond

// Run replays the scripted hand against a running engine.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	if config.FPS < 1 {
		config.FPS = DefaultFPS
	}

	logger.Get().Info(ctx, "starting hand replay",
		logger.String("baseURL", config.BaseURL),
		logger.Duration("duration", config.Duration),
		logger.Int("fps", config.FPS),
		logger.Int("repeatEvery", config.RepeatEvery),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	if err := replay(ctx, client, config, NewScript(WithSeed(config.Seed)), stats); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if err := verifyResults(stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	logger.Get().Info(ctx, "replay completed successfully")
	return nil
}

// replay posts one sample per tick until the configured duration elapses.
func replay(ctx context.Context, client *HTTPClient, config *Config, script *Script, stats *Stats) error {
	url := config.BaseURL + "/api/landmarks"
	frame := time.Second / time.Duration(config.FPS)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	deadline := time.After(config.Duration)
	lastCheck := time.Now()

	var prev time.Duration
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during replay: %w", ctx.Err())
		case <-deadline:
			return nil
		case <-ticker.C:
		}

		ts := time.Duration(n) * frame
		if config.RepeatEvery > 0 && n > 0 && n%config.RepeatEvery == 0 {
			ts = prev
		}
		prev = ts

		if script.Open(ts) {
			stats.OpenSamples++
		}
		stats.SamplesSent++
		switch submitSample(ctx, client, url, NewSample(ts, script.Hands(ts))) {
		case resultAccepted:
			stats.SamplesAccepted++
		case resultDuplicate:
			stats.SamplesSkipped++
		default:
			stats.SamplesFailed++
		}

		if time.Since(lastCheck) >= sceneCheckInterval {
			lastCheck = time.Now()
			observeScene(ctx, client, config, stats)
		}
	}
}

func observeScene(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) {
	scene, err := fetchScene(ctx, client, config.BaseURL)
	if err != nil {
		logger.Get().Warn(ctx, "scene check failed", logger.Error(err))
		return
	}
	if stats.LastMode != "" && scene.Mode != stats.LastMode {
		stats.ModeChanges++
	}
	stats.LastMode = scene.Mode

	if config.Verbose {
		log.Printf("scene: mode=%s detected=%t open=%t (sent %d, skipped %d, failed %d)",
			scene.Mode, scene.Signal.Detected, scene.Signal.Open,
			stats.SamplesSent, stats.SamplesSkipped, stats.SamplesFailed)
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// verifyResults checks the engine reacted to the replay.
func verifyResults(stats *Stats) error {
	if stats.SamplesSent > 0 && stats.SamplesFailed == stats.SamplesSent {
		return fmt.Errorf("all %d samples failed", stats.SamplesSent)
	}
	if stats.OpenSamples > 0 && stats.OpenSamples < stats.SamplesSent && stats.ModeChanges == 0 && stats.LastMode != "" {
		return fmt.Errorf("hand opened and closed but the scene stayed %s", stats.LastMode)
	}
	return nil
}

func displayFinalStats(stats *Stats) {
	log.Printf(`replay finished in %s:
   Sent: %d
   Accepted: %d
   Skipped (repeated frame): %d
   Failed: %d
   Mode changes observed: %d (last: %s)
`, stats.Duration.Round(time.Millisecond), stats.SamplesSent, stats.SamplesAccepted,
		stats.SamplesSkipped, stats.SamplesFailed, stats.ModeChanges, stats.LastMode)
}
