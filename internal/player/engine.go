/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package player runs the playback engine: one goroutine that owns the
// loaded track, takes control actions from a queue and streams decoded
// audio to the output.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"implayer/internal/codec"
	"implayer/internal/filesystem"
	"implayer/internal/log"
	"implayer/internal/output"
	"implayer/pkg/spec"
)

// Source opens a track for decoding.
type Source func(path string) (codec.Reader, codec.Decoder, error)

// FileSource decodes tracks from the configured filesystem.
func FileSource(path string) (codec.Reader, codec.Decoder, error) {
	return codec.Probe(filesystem.API(), path)
}

type Options struct {
	Source Source
	Output output.Opener
	// VolumeControl is the initial volume control value. Zero selects
	// the default; use the bottom of the control range for silence.
	VolumeControl float64
}

type Engine struct {
	source      Source
	open        output.Opener
	actions     *mailbox[Action]
	completions *mailbox[Completion]
	status      status
	running     atomic.Bool
	// passes counts loop iterations
	passes atomic.Uint64

	// owned by Run
	session *session
	playing bool
	volume  float32
}

func New(opts Options) *Engine {
	if opts.Source == nil {
		opts.Source = FileSource
	}
	if opts.Output == nil {
		opts.Output = func(s output.SampleSpec, _ int) (output.Sink, error) {
			return output.OpenNull(s)
		}
	}
	if opts.VolumeControl == 0 {
		opts.VolumeControl = spec.VolumeControlDefault
	}
	vol := VolumeFromControl(opts.VolumeControl)

	e := &Engine{
		source:      opts.Source,
		open:        opts.Output,
		actions:     newMailbox[Action](),
		completions: newMailbox[Completion](),
		volume:      vol,
	}
	e.status.cur.Volume = vol
	return e
}

// Run is the engine loop. It returns nil once Close was called and every
// queued action has been applied, or ctx.Err() when ctx is cancelled.
// Actions still queued when Run returns are answered with ErrClosed.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer func() {
		e.actions.Close()
		for {
			a, err := e.actions.TryPop()
			if err != nil {
				break
			}
			a.ack(ErrClosed)
		}
		e.unload()
		e.publish()
		e.completions.Close()
	}()

	for {
		e.passes.Add(1)

		var (
			a   Action
			ok  bool
			err error
		)
		if e.playing {
			// take at most one action so decoding keeps going
			a, err = e.actions.TryPop()
			ok = err == nil
			if err == errEmpty {
				err = nil
			}
		} else {
			a, err = e.actions.Pop(ctx)
			ok = err == nil
		}

		switch {
		case errors.Is(err, ErrClosed):
			return nil
		case err != nil:
			return err
		}

		if ok {
			e.apply(a)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.session == nil || !e.playing {
			continue
		}
		e.step()
	}
}

func (e *Engine) apply(a Action) {
	log.WithFields(log.Fields{"action": a.String()}).Debug("apply")

	var err error
	switch a.Kind {
	case ActionPlay:
		e.unload()
		err = e.load(a.Path)
	case ActionPause:
		if e.session != nil {
			e.playing = false
		}
	case ActionResume:
		if e.session != nil {
			e.playing = true
		}
	case ActionStop:
		e.unload()
	case ActionSeek:
		if e.session != nil {
			if err = e.session.seek(a.Position); err != nil {
				log.WithFields(log.Fields{"path": e.session.path, "position": a.Position}).WithError(err).Warn("seek failed")
			} else {
				e.status.setPosition(a.Position)
			}
		}
	case ActionSetVolume:
		e.volume = clampVolume(a.Volume)
	default:
		err = fmt.Errorf("unknown action %s", a.Kind)
	}

	e.publish()
	a.ack(err)
}

func (e *Engine) load(path string) error {
	r, d, err := e.source(path)
	if err != nil {
		err = &OpenError{Path: path, Err: err}
		log.WithError(err).Error("play")
		return err
	}

	tb := r.Track().TimeBase
	if tb.Denom == 0 {
		r.Close()
		err = &OpenError{Path: path, Err: codec.ErrNoTimeBase}
		log.WithError(err).Error("play")
		return err
	}

	e.session = &session{
		path:     path,
		reader:   r,
		decoder:  d,
		timeBase: tb,
	}
	e.playing = true
	e.status.setPosition(0)
	log.WithFields(log.Fields{"path": path, "codec": r.Track().Codec}).Info("loaded")
	return nil
}

// unload drops the session. The engine is never playing without one.
func (e *Engine) unload() {
	e.playing = false
	if e.session == nil {
		return
	}
	e.session.close()
	e.session = nil
}

// step moves one packet from the reader to the sink.
func (e *Engine) step() {
	s := e.session

	p, err := s.reader.NextPacket()
	if err != nil {
		if errors.Is(err, io.EOF) {
			e.finish(ReasonEnded, nil)
		} else {
			e.finish(ReasonFailed, fmt.Errorf("read: %w", err))
		}
		return
	}

	buf, err := s.decoder.Decode(p)
	if err != nil {
		if codec.IsRecoverable(err) {
			log.WithFields(log.Fields{"path": s.path}).WithError(err).Warn("decode error, packet skipped")
			return
		}
		e.finish(ReasonFailed, fmt.Errorf("decode: %w", err))
		return
	}

	if s.sink == nil {
		ss := output.SpecOf(buf)
		frames := 0
		if ss.Channels > 0 {
			frames = len(buf.Data) / ss.Channels
		}
		sink, err := e.open(ss, frames)
		if err != nil {
			e.finish(ReasonFailed, fmt.Errorf("open output: %w", err))
			return
		}
		s.sink = sink
	}

	e.status.setPosition(codec.ToMillis(s.timeBase.CalcTime(p.TS)))

	if err := s.sink.Write(buf, e.volume); err != nil {
		e.finish(ReasonFailed, fmt.Errorf("write output: %w", err))
	}
}

// finish tears the session down on its own and publishes the completion.
func (e *Engine) finish(reason Reason, cause error) {
	s := e.session
	if reason == ReasonEnded && s.sink != nil {
		if err := s.sink.Flush(); err != nil {
			log.WithFields(log.Fields{"path": s.path}).WithError(err).Warn("flush output")
		}
	}

	e.unload()
	e.publish()

	c := Completion{Path: s.path, Reason: reason, Err: cause}
	entry := log.WithFields(log.Fields{"path": s.path, "reason": reason.String()})
	if cause != nil {
		entry.WithError(cause).Error("track failed")
	} else {
		entry.Info("track ended")
	}

	// the mailbox only closes after Run returns
	_ = e.completions.Push(c)
}

func (e *Engine) publish() {
	st := StateIdle
	path := ""
	if e.session != nil {
		path = e.session.path
		st = StatePaused
		if e.playing {
			st = StatePlaying
		}
	}
	vol := e.volume
	e.status.update(func(s *Status) {
		s.State = st
		s.Path = path
		s.Volume = vol
	})
}

// Send queues a. It never blocks.
func (e *Engine) Send(a Action) error {
	return e.actions.Push(a)
}

// Close ends the engine once the already queued actions are applied.
func (e *Engine) Close() {
	e.actions.Close()
}

// Do queues a and waits until the engine applied it.
func (e *Engine) Do(ctx context.Context, a Action) error {
	reply := make(chan error, 1)
	if err := e.Send(a.WithReply(reply)); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play loads path and reports whether it could be opened.
func (e *Engine) Play(ctx context.Context, path string) error {
	return e.Do(ctx, Play(path))
}

func (e *Engine) Pause() error              { return e.Send(Pause()) }
func (e *Engine) Resume() error             { return e.Send(Resume()) }
func (e *Engine) Stop() error               { return e.Send(Stop()) }
func (e *Engine) Seek(ms int64) error       { return e.Send(Seek(ms)) }
func (e *Engine) SetVolume(v float32) error { return e.Send(SetVolume(v)) }

// Position is the timestamp of the last buffer handed to the output, in ms.
func (e *Engine) Position() int64 {
	return e.status.position()
}

func (e *Engine) Status() Status {
	return e.status.snapshot()
}

func (e *Engine) State() State {
	return e.status.snapshot().State
}

// Completion waits for the next completion. It returns ErrClosed after
// the engine stopped and every completion was taken.
func (e *Engine) Completion(ctx context.Context) (Completion, error) {
	return e.completions.Pop(ctx)
}

// PollCompletion returns a pending completion without waiting.
func (e *Engine) PollCompletion() (Completion, bool) {
	c, err := e.completions.TryPop()
	return c, err == nil
}
