// SPDX-License-Identifier: MIT

// Package cmd wires the cobra command line onto the YAML/env configuration
// layer. Flags take precedence over the config file.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/escanorganic/music-viz1/internal/config"
	"github.com/escanorganic/music-viz1/pkg/build"
)

// Commands the caller dispatches on after ParseArgs.
const (
	CommandRun  = ""
	CommandList = "list"
)

// ParseArgs parses the command line, loads the configuration file, and
// applies flag overrides. The returned command selects the program mode.
func ParseArgs() (*config.Config, string, error) {
	buildInfo := build.GetBuildFlags()

	var (
		configPath string
		command    = CommandRun
		flags      flagOverrides
	)

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Real-time terminal music visualizer",
		Version:       buildInfo.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			command = CommandList
		},
	}
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML configuration file")

	// Audio device configuration
	rootCmd.PersistentFlags().IntVarP(&flags.deviceID, "device", "d", config.MinDeviceID,
		"Input device ID. Use 'list' to see available devices.")
	rootCmd.PersistentFlags().Float64VarP(&flags.sampleRate, "sample-rate", "s", 0,
		"Sample rate in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&flags.framesPerBuffer, "frames-per-buffer", "b", 0,
		"Frames per buffer (affects latency, must be a power of two)")
	rootCmd.PersistentFlags().BoolVarP(&flags.lowLatency, "low-latency", "l", false,
		"Use low latency mode for real-time processing")

	// Recording configuration
	rootCmd.PersistentFlags().BoolVarP(&flags.record, "record", "r", false,
		"Record raw input to a WAV file while listening")
	rootCmd.PersistentFlags().StringVarP(&flags.outputDir, "output-dir", "o", "",
		"Directory for WAV recordings")

	// Transport configuration
	rootCmd.PersistentFlags().BoolVar(&flags.websocket, "ws", false,
		"Publish analysis snapshots over websocket")
	rootCmd.PersistentFlags().StringVar(&flags.websocketAddr, "ws-addr", "",
		"Websocket listen address (host:port)")

	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	flags.apply(cfg, rootCmd)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, command, nil
}

// flagOverrides holds flag values until we know which were actually set.
type flagOverrides struct {
	deviceID        int
	sampleRate      float64
	framesPerBuffer int
	lowLatency      bool
	record          bool
	outputDir       string
	websocket       bool
	websocketAddr   string
	debug           bool
}

// apply copies explicitly set flags onto the loaded configuration.
func (f *flagOverrides) apply(cfg *config.Config, cmd *cobra.Command) {
	set := cmd.PersistentFlags().Changed

	if set("device") {
		cfg.Audio.InputDevice = f.deviceID
	}
	if set("sample-rate") {
		cfg.Audio.SampleRate = f.sampleRate
	}
	if set("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = f.framesPerBuffer
	}
	if set("low-latency") {
		cfg.Audio.LowLatency = f.lowLatency
	}
	if set("record") {
		cfg.Recording.Enabled = f.record
	}
	if set("output-dir") {
		cfg.Recording.OutputDir = f.outputDir
	}
	if set("ws") {
		cfg.Transport.WebsocketEnabled = f.websocket
	}
	if set("ws-addr") {
		cfg.Transport.WebsocketAddr = f.websocketAddr
	}
	if set("verbose") {
		cfg.Debug = f.debug
		cfg.LogLevel = "debug"
	}
}
