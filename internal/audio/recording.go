package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	applog "github.com/escanorganic/music-viz1/internal/log"
)

// recordingState groups the WAV encoder resources so the Engine struct
// stays readable. Guarded by the isRecording atomic: the callback only
// touches these fields while the flag is 1.
type recordingState struct {
	outputFile *os.File
	wavEncoder *wav.Encoder
	sampleBuf  *goaudio.IntBuffer
}

// StartRecording begins writing the raw input stream to a timestamped WAV
// file under dir.
func (e *Engine) StartRecording(dir string) error {
	if atomic.LoadInt32(&e.isRecording) == 1 {
		return fmt.Errorf("already recording")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}
	name := "capture-" + time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	e.recording.outputFile = file

	e.recording.wavEncoder = wav.NewEncoder(file, int(e.cfg.Audio.SampleRate),
		32, e.cfg.Audio.InputChannels, 1)

	e.recording.sampleBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: e.cfg.Audio.InputChannels,
			SampleRate:  int(e.cfg.Audio.SampleRate),
		},
		Data: make([]int, e.cfg.Audio.FramesPerBuffer*e.cfg.Audio.InputChannels),
	}

	atomic.StoreInt32(&e.isRecording, 1)
	applog.Infof("Audio: recording to %s", file.Name())
	return nil
}

// writeRecording appends one callback buffer to the WAV file. Called from
// the audio callback; reuses the pre-allocated sample buffer.
func (e *Engine) writeRecording(buffer []int32) {
	if e.recording.wavEncoder == nil {
		return
	}

	for i, sample := range buffer {
		e.recording.sampleBuf.Data[i] = int(sample)
	}
	e.recording.sampleBuf.Data = e.recording.sampleBuf.Data[:len(buffer)]

	if err := e.recording.wavEncoder.Write(e.recording.sampleBuf); err != nil {
		applog.Errorf("Audio: WAV write failed: %v", err)
	}
}

// StopRecording finalizes the WAV file. A no-op when not recording.
func (e *Engine) StopRecording() error {
	if atomic.LoadInt32(&e.isRecording) == 0 {
		return nil
	}
	atomic.StoreInt32(&e.isRecording, 0)

	if e.recording.wavEncoder != nil {
		if err := e.recording.wavEncoder.Close(); err != nil {
			return err
		}
		e.recording.wavEncoder = nil
	}
	if e.recording.outputFile != nil {
		if err := e.recording.outputFile.Close(); err != nil {
			return err
		}
		e.recording.outputFile = nil
	}
	return nil
}
