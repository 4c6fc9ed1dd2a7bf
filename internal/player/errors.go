/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import (
	"errors"
	"fmt"
)

var (
	ErrClosed  = errors.New("engine control channel closed")
	ErrRunning = errors.New("engine already running")
)

// OpenError is returned by Play when a track cannot be opened or probed.
// The engine stays idle.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

type Reason int

const (
	// ReasonEnded: the stream was played to its end.
	ReasonEnded Reason = iota
	// ReasonFailed: reading, decoding or output failed mid-stream.
	ReasonFailed
)

func (r Reason) String() string {
	if r == ReasonFailed {
		return "FAILED"
	}
	return "ENDED"
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Completion is published once per session when the engine leaves the
// loaded state on its own. Stop never produces one.
type Completion struct {
	Path   string
	Reason Reason
	Err    error
}

func (c Completion) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%s %s: %v", c.Reason, c.Path, c.Err)
	}
	return fmt.Sprintf("%s %s", c.Reason, c.Path)
}
