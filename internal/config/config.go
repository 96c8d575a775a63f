// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/escanorganic/music-viz1/pkg/bitint"
)

// Boundaries and defaults for the analyzer and audio engine.
const (
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 1024 // doubles as the FFT transform size
	DefaultChannels        = 1
	DefaultFrameRate       = 60

	MinDeviceID     = -1 // -1 selects the system default input device
	MinSampleRate   = 8000
	MaxSampleRate   = 192000
	MaxBufferFrames = 8192
)

// Config holds all runtime options, loaded from YAML with environment
// overrides and optionally adjusted by CLI flags.
type Config struct {
	Debug     bool            `yaml:"debug"`
	LogLevel  string          `yaml:"log_level"`
	Audio     AudioConfig     `yaml:"audio"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds input device and capture settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index, -1 for default
	SampleRate      float64 `yaml:"sample_rate"`       // Hz
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // power of two; also the transform size
	InputChannels   int     `yaml:"input_channels"`    // 1 mono, 2 stereo
	LowLatency      bool    `yaml:"low_latency"`       // request low latency from the device
	GateThreshold   float64 `yaml:"gate_threshold"`    // noise gate, 0 always open .. 1 always closed
}

// AnalysisConfig holds the band analyzer tuning parameters.
type AnalysisConfig struct {
	SmoothingAlpha    float64 `yaml:"smoothing_alpha"`    // energy EMA weight per cycle
	SpectrumSmoothing float64 `yaml:"spectrum_smoothing"` // per-bin magnitude time constant
	PeakDecay         float64 `yaml:"peak_decay"`         // peak memory decay per cycle
	PeakThreshold     float64 `yaml:"peak_threshold"`     // absolute transient floor
	HistoryFrames     int     `yaml:"history_frames"`     // raw-energy history window
	FrameRate         int     `yaml:"frame_rate"`         // analysis cycles per second
}

// RecordingConfig controls optional WAV capture of the raw input.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
}

// TransportConfig controls the optional snapshot broadcast.
type TransportConfig struct {
	WebsocketEnabled bool          `yaml:"websocket_enabled"`
	WebsocketAddr    string        `yaml:"websocket_addr"`
	PublishInterval  time.Duration `yaml:"publish_interval"`
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     MinDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   DefaultChannels,
			LowLatency:      false,
			GateThreshold:   0.001,
		},
		Analysis: AnalysisConfig{
			SmoothingAlpha:    0.3,
			SpectrumSmoothing: 0.8,
			PeakDecay:         0.95,
			PeakThreshold:     0.7,
			HistoryFrames:     43,
			FrameRate:         DefaultFrameRate,
		},
		Recording: RecordingConfig{
			Enabled:   false,
			OutputDir: "./recordings",
		},
		Transport: TransportConfig{
			WebsocketEnabled: false,
			WebsocketAddr:    ":8080",
			PublishInterval:  33 * time.Millisecond,
		},
	}
}

// Load reads configuration from the YAML file at path. An empty path
// searches "config.yaml" in the working directory and silently falls back
// to defaults when absent. Environment overrides apply after the file,
// then the result is validated.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate fails fast on malformed settings. These are programmer or
// operator errors, not runtime conditions to recover from.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %g outside [%d, %d]", c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if !bitint.IsPowerOfTwo(c.Audio.FramesPerBuffer) || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer %d must be a power of 2 at most %d", c.Audio.FramesPerBuffer, MaxBufferFrames)
	}
	if c.Audio.InputChannels < 1 || c.Audio.InputChannels > 2 {
		return fmt.Errorf("audio.input_channels %d must be 1 or 2", c.Audio.InputChannels)
	}
	if c.Audio.GateThreshold < 0 || c.Audio.GateThreshold > 1 {
		return fmt.Errorf("audio.gate_threshold %g outside [0, 1]", c.Audio.GateThreshold)
	}
	if a := c.Analysis.SmoothingAlpha; a <= 0 || a > 1 {
		return fmt.Errorf("analysis.smoothing_alpha %g outside (0, 1]", a)
	}
	if s := c.Analysis.SpectrumSmoothing; s < 0 || s >= 1 {
		return fmt.Errorf("analysis.spectrum_smoothing %g outside [0, 1)", s)
	}
	if d := c.Analysis.PeakDecay; d <= 0 || d >= 1 {
		return fmt.Errorf("analysis.peak_decay %g outside (0, 1)", d)
	}
	if t := c.Analysis.PeakThreshold; t < 0 || t > 1 {
		return fmt.Errorf("analysis.peak_threshold %g outside [0, 1]", t)
	}
	if c.Analysis.HistoryFrames < 1 {
		return fmt.Errorf("analysis.history_frames %d must be positive", c.Analysis.HistoryFrames)
	}
	if fr := c.Analysis.FrameRate; fr < 1 || fr > 240 {
		return fmt.Errorf("analysis.frame_rate %d outside [1, 240]", fr)
	}
	if c.Transport.WebsocketEnabled && c.Transport.PublishInterval <= 0 {
		return fmt.Errorf("transport.publish_interval must be positive when the websocket is enabled")
	}
	return nil
}

// applyEnvOverrides applies VIZ_* environment variables on top of the
// loaded configuration.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("VIZ_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("VIZ_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("VIZ_WS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.WebsocketEnabled = b
		}
	}
	if val, ok := os.LookupEnv("VIZ_WS_ADDR"); ok {
		c.Transport.WebsocketAddr = val
	}
	if val, ok := os.LookupEnv("VIZ_PUBLISH_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Transport.PublishInterval = dur
		}
	}
}
