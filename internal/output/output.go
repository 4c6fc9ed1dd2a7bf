/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package output renders decoded PCM buffers on an audio device.
package output

import (
	"errors"
	"fmt"
	"time"

	"implayer/pkg/audioengine"

	"github.com/go-audio/audio"
)

var (
	ErrSinkClosed   = errors.New("sink closed")
	ErrSampleSpec   = errors.New("unsupported sample spec")
	ErrFlushTimeout = errors.New("flush timed out")
	ErrUnknownSink  = errors.New("unknown audio device")
)

type SampleSpec struct {
	Rate     int
	Channels int
}

func (s SampleSpec) String() string {
	return fmt.Sprintf("%dHz/%dch", s.Rate, s.Channels)
}

func (s SampleSpec) validate() error {
	if s.Rate <= 0 || s.Channels < 1 || s.Channels > 2 {
		return fmt.Errorf("%w: %s", ErrSampleSpec, s)
	}
	return nil
}

// SpecOf returns the sample spec of buf.
func SpecOf(buf *audio.FloatBuffer) SampleSpec {
	if buf == nil || buf.Format == nil {
		return SampleSpec{}
	}
	return SampleSpec{Rate: buf.Format.SampleRate, Channels: buf.Format.NumChannels}
}

// Sink accepts decoded buffers. Write blocks while the device is behind,
// which is what paces the decoder.
type Sink interface {
	// Write plays buf scaled by volume. buf itself is left untouched.
	Write(buf *audio.FloatBuffer, volume float32) error
	// Flush blocks until everything written so far has been played.
	Flush() error
	Close() error
}

// Opener acquires a sink for spec. bufferFrames is a hint of the largest
// buffer that will be written.
type Opener func(spec SampleSpec, bufferFrames int) (Sink, error)

type Options struct {
	Device     string
	Latency    time.Duration
	QueueDepth int
}

// NewOpener returns the opener for the configured device: "speaker" or "null".
func NewOpener(opts Options) (Opener, error) {
	if opts.Latency <= 0 {
		opts.Latency = 100 * time.Millisecond
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = 8
	}

	switch opts.Device {
	case "", "speaker":
		return func(spec SampleSpec, bufferFrames int) (Sink, error) {
			return OpenSpeaker(spec, bufferFrames, opts)
		}, nil
	case "null":
		return func(spec SampleSpec, _ int) (Sink, error) {
			return OpenNull(spec)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, opts.Device)
	}
}

// toFrames converts an interleaved buffer into scaled stereo frames.
func toFrames(buf *audio.FloatBuffer, volume float32) [][2]float64 {
	ch := buf.Format.NumChannels
	scaled := make([]float64, len(buf.Data))
	audioengine.ApplyGain(scaled, buf.Data, float64(volume))

	frames := make([][2]float64, len(scaled)/ch)
	for i := range frames {
		l := scaled[i*ch]
		r := l
		if ch == 2 {
			r = scaled[i*ch+1]
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}
