// Package audio owns the process-wide speaker and plays decoded files and
// synthesized tones on it.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the rate the speaker is opened at.
const SampleRate = beep.SampleRate(44100)

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

var (
	// ErrOutputUnavailable means no audio device could be opened.
	ErrOutputUnavailable = errors.New("audio output unavailable")
	// ErrDecodeFailure means a sound file could not be opened or decoded.
	ErrDecodeFailure = errors.New("audio decode failure")
)

// device is the single speaker shared by every Output in the process.
var device struct {
	mu          sync.Mutex
	initialized bool
}

// initSpeaker opens the speaker once. A failed attempt is retried on the
// next call, so a device plugged in later is picked up.
func initSpeaker(sr beep.SampleRate) error {
	device.mu.Lock()
	defer device.mu.Unlock()

	if device.initialized {
		return nil
	}

	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	device.initialized = true
	return nil
}

// Output plays sounds on the shared speaker. Play and PlayTone return as
// soon as the stream is queued; the speaker keeps rendering after the
// caller (and the Output) are gone.
type Output struct {
	sampleRate beep.SampleRate
	init       func(beep.SampleRate) error
	play       func(...beep.Streamer)
}

// New creates an Output backed by the process-wide speaker.
func New() *Output {
	return &Output{
		sampleRate: SampleRate,
		init:       initSpeaker,
		play:       speaker.Play,
	}
}

// Initialize opens the speaker if it is not open yet.
func (o *Output) Initialize() error {
	if err := o.init(o.sampleRate); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}
	return nil
}

// Play decodes the WAV or MP3 file at path and starts playing it.
func (o *Output) Play(path string) error {
	if err := o.Initialize(); err != nil {
		return err
	}

	stream, format, err := decodeFile(path)
	if err != nil {
		return err
	}

	var s beep.Streamer = stream
	if format.SampleRate != o.sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, o.sampleRate, s)
	}

	o.play(beep.Seq(s, beep.Callback(func() {
		_ = stream.Close()
	})))
	return nil
}

// PlayTone synthesizes a sine tone and starts playing it.
func (o *Output) PlayTone(frequency float64, duration time.Duration, amplitude float64) error {
	if err := o.Initialize(); err != nil {
		return err
	}

	sine, err := generators.SineTone(o.sampleRate, frequency)
	if err != nil {
		return fmt.Errorf("generate %.0fHz tone: %w", frequency, err)
	}

	o.play(withAmplitude(beep.Take(o.sampleRate.N(duration), sine), amplitude))
	return nil
}

// withAmplitude scales s linearly; non-positive amplitudes are silent.
func withAmplitude(s beep.Streamer, amplitude float64) beep.Streamer {
	if amplitude <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(amplitude)}
}

// decodeFile opens path and picks a decoder by extension, trying WAV for
// unknown extensions. The returned stream owns the file.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the sound resolver
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: open %s: %w", ErrDecodeFailure, path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: decode %s: %w", ErrDecodeFailure, path, err)
	}

	return closeBoth{StreamSeekCloser: stream, file: f}, format, nil
}

// closeBoth closes the decoder and then the file it reads from.
type closeBoth struct {
	beep.StreamSeekCloser
	file io.Closer
}

func (c closeBoth) Close() error {
	err := c.StreamSeekCloser.Close()
	if cerr := c.file.Close(); err == nil && !errors.Is(cerr, os.ErrClosed) {
		err = cerr
	}
	return err
}
