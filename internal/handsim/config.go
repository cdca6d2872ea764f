// Package handsim drives a running engine with a scripted hand over HTTP.
package handsim

import "time"

// Config holds configuration for a replay run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Duration    time.Duration // How long to replay
	FPS         int           // Samples per second
	RepeatEvery int           // Resend the previous timestamp every n samples; 0 disables
	Timeout     time.Duration // HTTP request timeout
	Seed        int64         // Jitter seed
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Landmark is one keypoint on the wire.
type Landmark struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Sample is the body of POST /api/landmarks.
type Sample struct {
	TimestampMS int64        `json:"timestamp_ms"`
	Hands       [][]Landmark `json:"hands"`
}

// AckResponse represents the response from a landmark submission.
type AckResponse struct {
	Status string `json:"status"`
}

// SceneSummary is the part of GET /api/scene the replay reports on.
type SceneSummary struct {
	Mode   string `json:"mode"`
	Signal struct {
		Detected bool `json:"detected"`
		Open     bool `json:"open"`
	} `json:"signal"`
}

// Stats holds run statistics.
type Stats struct {
	SamplesSent     int
	SamplesAccepted int
	SamplesSkipped  int
	SamplesFailed   int
	OpenSamples     int
	ModeChanges     int
	LastMode        string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
