// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/escanorganic/music-viz1/cmd"
	"github.com/escanorganic/music-viz1/internal/analysis"
	"github.com/escanorganic/music-viz1/internal/audio"
	applog "github.com/escanorganic/music-viz1/internal/log"
	"github.com/escanorganic/music-viz1/internal/memwatch"
	"github.com/escanorganic/music-viz1/internal/transport"
	"github.com/escanorganic/music-viz1/internal/tui"
	"github.com/escanorganic/music-viz1/internal/visualizer"
	"github.com/escanorganic/music-viz1/pkg/build"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := build.Initialize(); err != nil {
		return err
	}

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	cfg, command, err := cmd.ParseArgs()
	if err != nil {
		return err
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	if command == cmd.CommandList {
		return tui.StartDeviceListUI()
	}

	// Capture pipeline: portaudio in, FFT, byte spectrum out.
	engine, err := audio.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	analyzer, err := analysis.NewAnalyzer(engine, nil, analysis.Config{
		TransformSize: cfg.Audio.FramesPerBuffer,
		Alpha:         cfg.Analysis.SmoothingAlpha,
		PeakDecay:     cfg.Analysis.PeakDecay,
		PeakThreshold: cfg.Analysis.PeakThreshold,
		HistoryFrames: cfg.Analysis.HistoryFrames,
	})
	if err != nil {
		return err
	}
	defer analyzer.Dispose()

	if err := analyzer.Start(context.Background()); err != nil {
		return err
	}

	// Background cache sweep.
	watcher := memwatch.NewManager()
	watcher.Register("visualizer styles", visualizer.PurgeStyles)
	watcher.Start(time.Minute)
	defer watcher.Stop()

	opts := []visualizer.Option{
		visualizer.WithRecorder(engine, cfg.Recording.OutputDir),
	}

	if cfg.Transport.WebsocketEnabled {
		publisher, err := transport.NewPublisher(
			cfg.Transport.PublishInterval,
			transport.NewWebSocketTransport(cfg.Transport.WebsocketAddr),
		)
		if err != nil {
			return err
		}
		publisher.Start()
		defer publisher.Close()
		opts = append(opts, visualizer.WithPublisher(publisher))
	}

	if cfg.Recording.Enabled {
		if err := engine.StartRecording(cfg.Recording.OutputDir); err != nil {
			return err
		}
	}

	model := visualizer.New(analyzer, cfg.Analysis.FrameRate, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return engine.StopRecording()
}
