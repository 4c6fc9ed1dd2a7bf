/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import "fmt"

type ActionKind int

const (
	ActionPlay ActionKind = iota
	ActionPause
	ActionResume
	ActionStop
	ActionSeek
	ActionSetVolume
)

func (k ActionKind) String() string {
	switch k {
	case ActionPlay:
		return "PLAY"
	case ActionPause:
		return "PAUSE"
	case ActionResume:
		return "RESUME"
	case ActionStop:
		return "STOP"
	case ActionSeek:
		return "SEEK"
	case ActionSetVolume:
		return "SET_VOLUME"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is one control command. It is consumed exactly once by the engine.
type Action struct {
	Kind     ActionKind
	Path     string  // Play
	Position int64   // Seek, milliseconds
	Volume   float32 // SetVolume, linear multiplier

	reply chan<- error
}

func Play(path string) Action { return Action{Kind: ActionPlay, Path: path} }
func Pause() Action { return Action{Kind: ActionPause} }
func Resume() Action { return Action{Kind: ActionResume} }
func Stop() Action { return Action{Kind: ActionStop} }
func Seek(ms int64) Action { return Action{Kind: ActionSeek, Position: ms} }
func SetVolume(v float32) Action { return Action{Kind: ActionSetVolume, Volume: v} }

// WithReply makes the engine send the outcome of the action on ch once it
// has been applied. ch should be buffered; the engine never waits on it.
func (a Action) WithReply(ch chan<- error) Action {
	a.reply = ch
	return a
}

func (a Action) ack(err error) {
	if a.reply == nil {
		return
	}
	select {
	case a.reply <- err:
	default:
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionPlay:
		return fmt.Sprintf("%s %q", a.Kind, a.Path)
	case ActionSeek:
		return fmt.Sprintf("%s %dms", a.Kind, a.Position)
	case ActionSetVolume:
		return fmt.Sprintf("%s %.3f", a.Kind, a.Volume)
	}
	return a.Kind.String()
}
