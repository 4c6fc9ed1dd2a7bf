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

	"github.com/go-audio/audio"
)

// nullSink discards audio but sleeps for the duration of every buffer, so
// a headless engine is paced like a real device.
type nullSink struct {
	spec   SampleSpec
	mu     sync.Mutex
	closed bool
	sleep  func(time.Duration)
}

func OpenNull(spec SampleSpec) (Sink, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &nullSink{spec: spec, sleep: time.Sleep}, nil
}

func (s *nullSink) Write(buf *audio.FloatBuffer, _ float32) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSinkClosed
	}
	if got := SpecOf(buf); got != s.spec {
		return fmt.Errorf("%w: sink is %s, buffer is %s", ErrSampleSpec, s.spec, got)
	}

	frames := len(buf.Data) / s.spec.Channels
	s.sleep(time.Duration(frames) * time.Second / time.Duration(s.spec.Rate))
	return nil
}

func (s *nullSink) Flush() error { return nil }

func (s *nullSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
