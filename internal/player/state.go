/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import "sync"

type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	}
	return "IDLE"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a snapshot of what the engine is doing.
type Status struct {
	State    State
	Path     string
	Position int64
	Volume   float32
}

// status is written only by the engine goroutine and read by anyone.
type status struct {
	mu  sync.RWMutex
	cur Status
}

func (s *status) setPosition(ms int64) {
	s.mu.Lock()
	s.cur.Position = ms
	s.mu.Unlock()
}

func (s *status) update(fn func(*Status)) {
	s.mu.Lock()
	fn(&s.cur)
	s.mu.Unlock()
}

func (s *status) position() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Position
}

func (s *status) snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
