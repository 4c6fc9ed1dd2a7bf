/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package output

import "sync"

type chunk struct {
	frames [][2]float64
	done   chan struct{} // closed once the device reached this chunk
}

// feed is the beep.Streamer handed to the speaker. Writers push chunks into
// a bounded queue and block while it is full; the speaker goroutine drains
// it in real time. Stream never blocks: an empty queue plays silence.
type feed struct {
	queue     chan chunk
	cur       chunk
	closed    chan struct{}
	closeOnce sync.Once
}

func newFeed(depth int) *feed {
	return &feed{
		queue:  make(chan chunk, depth),
		closed: make(chan struct{}),
	}
}

func (f *feed) push(c chunk) error {
	select {
	case <-f.closed:
		return ErrSinkClosed
	default:
	}

	select {
	case f.queue <- c:
		return nil
	case <-f.closed:
		return ErrSinkClosed
	}
}

func (f *feed) close() {
	f.closeOnce.Do(func() { close(f.closed) })
}

func (f *feed) Stream(samples [][2]float64) (int, bool) {
	filled := 0

	for filled < len(samples) {
		if len(f.cur.frames) == 0 {
			if f.cur.done != nil {
				close(f.cur.done)
				f.cur.done = nil
			}

			select {
			case c := <-f.queue:
				f.cur = c
				continue
			default:
			}

			// underrun or paused
			for i := filled; i < len(samples); i++ {
				samples[i] = [2]float64{}
			}
			return len(samples), true
		}

		n := copy(samples[filled:], f.cur.frames)
		f.cur.frames = f.cur.frames[n:]
		filled += n
	}

	return filled, true
}

func (f *feed) Err() error { return nil }
