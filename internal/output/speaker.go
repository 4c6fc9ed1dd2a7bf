/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/go-audio/audio"
)

// the speaker package owns one process-wide device
var (
	deviceMu   sync.Mutex
	deviceRate beep.SampleRate
	deviceSize int
)

type speakerSink struct {
	spec     SampleSpec
	rate     beep.SampleRate
	feed     *feed
	latency  time.Duration
	maxChunk int
}

// OpenSpeaker (re)initialises the speaker for spec and starts a feed on it.
// The device is only reinitialised when the rate or buffer size changes.
func OpenSpeaker(spec SampleSpec, bufferFrames int, opts Options) (Sink, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	sr := beep.SampleRate(spec.Rate)
	size := sr.N(opts.Latency)
	if bufferFrames > size {
		size = bufferFrames
	}

	deviceMu.Lock()
	defer deviceMu.Unlock()

	if deviceRate != sr || deviceSize != size {
		if err := speaker.Init(sr, size); err != nil {
			deviceRate, deviceSize = 0, 0
			return nil, fmt.Errorf("speaker init %s: %w", spec, err)
		}
		deviceRate, deviceSize = sr, size
	} else {
		speaker.Clear()
	}

	f := newFeed(opts.QueueDepth)
	speaker.Play(f)

	return &speakerSink{
		spec:    spec,
		rate:    sr,
		feed:    f,
		latency: opts.Latency,
	}, nil
}

func (s *speakerSink) Write(buf *audio.FloatBuffer, volume float32) error {
	if got := SpecOf(buf); got != s.spec {
		return fmt.Errorf("%w: sink is %s, buffer is %s", ErrSampleSpec, s.spec, got)
	}

	frames := toFrames(buf, volume)
	if len(frames) > s.maxChunk {
		s.maxChunk = len(frames)
	}
	return s.feed.push(chunk{frames: frames})
}

func (s *speakerSink) Flush() error {
	done := make(chan struct{})
	if err := s.feed.push(chunk{done: done}); err != nil {
		return err
	}

	queued := s.rate.D(s.maxChunk * (cap(s.feed.queue) + 1))
	select {
	case <-done:
		// the device buffer still holds one latency worth of audio
		time.Sleep(s.latency)
		return nil
	case <-time.After(queued + s.latency + time.Second):
		return ErrFlushTimeout
	}
}

func (s *speakerSink) Close() error {
	s.feed.close()
	speaker.Clear()
	return nil
}
