/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package ipc exposes a playback engine over a line based unix socket
// protocol. Any client may query; only one client at a time controls.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"implayer/internal/log"
	"implayer/internal/player"
	"implayer/pkg/spec"
)

// Player is the part of the engine the server drives.
type Player interface {
	Do(ctx context.Context, a player.Action) error
	Status() player.Status
	Completion(ctx context.Context) (player.Completion, error)
}

type Server struct {
	player Player

	mu    sync.Mutex
	owner net.Conn
	conns map[net.Conn]struct{}
}

func NewServer(p Player) *Server {
	return &Server{player: p, conns: map[net.Conn]struct{}{}}
}

// Listen replaces any stale socket at path and listens on it.
func Listen(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	return net.Listen("unix", path)
}

// Serve accepts clients until ctx is done or ln fails. Completions of the
// engine are forwarded to the current owner while Serve runs.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		ln.Close()
		s.closeAll()
	}()
	go s.forwardCompletions(ctx)

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.track(c)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Handle(ctx, c)
		}()
	}
}

func (s *Server) track(c net.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.Close()
	}
}

func (s *Server) isOwner(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner == c
}

func (s *Server) claimOwner(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == nil {
		s.owner = c
		return true
	}
	return s.owner == c
}

// handOver gives up control without touching playback.
func (s *Server) handOver(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != c {
		return false
	}
	s.owner = nil
	return true
}

// releaseOwner drops c and stops playback if c was still in control.
func (s *Server) releaseOwner(ctx context.Context, c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	was := s.owner == c
	if was {
		s.owner = nil
	}
	s.mu.Unlock()

	if was {
		if err := s.player.Do(ctx, player.Stop()); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("stop on owner release")
		}
	}
}

func (s *Server) forwardCompletions(ctx context.Context) {
	for {
		c, err := s.player.Completion(ctx)
		if err != nil {
			return
		}

		ev := event{Type: "COMPLETED", Reason: c.Reason.String(), Path: c.Path}
		if c.Err != nil {
			ev.Error = c.Err.Error()
		}
		line, _ := json.Marshal(ev)

		s.mu.Lock()
		owner := s.owner
		s.mu.Unlock()
		if owner == nil {
			log.WithFields(log.Fields{"path": c.Path}).Debug("completion without owner")
			continue
		}
		if _, err := fmt.Fprintf(owner, "EVENT %s\n", line); err != nil {
			log.WithError(err).Warn("push event")
		}
	}
}

type event struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

type statusReply struct {
	State        player.State `json:"state"`
	Path         string       `json:"path"`
	Position     int64        `json:"position"`
	PositionText string       `json:"position_text"`
	Volume       float32      `json:"volume"`
}

// Handle serves one client until it disconnects.
func (s *Server) Handle(ctx context.Context, c net.Conn) {
	defer func() {
		s.releaseOwner(ctx, c)
		c.Close()
	}()

	sc := bufio.NewScanner(c)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		// verb plus raw argument, paths may contain spaces
		parts := strings.SplitN(line, " ", 2)
		cmd := strings.ToUpper(parts[0])
		arg := ""
		if len(parts) == 2 {
			arg = strings.TrimSpace(parts[1])
		}

		switch cmd {
		case "PING":
			reply(c, "PONG")
			continue
		case "ABOUT":
			reply(c, fmt.Sprintf("%s V.%d.%d", spec.AppName, spec.VersionMajor, spec.VersionMinor))
			continue
		case "WHOAMI":
			if s.isOwner(c) {
				reply(c, "OWNER")
			} else {
				reply(c, "OBSERVER")
			}
			continue
		case "STATUS":
			st := s.player.Status()
			j, _ := json.Marshal(statusReply{
				State:        st.State,
				Path:         st.Path,
				Position:     st.Position,
				PositionText: player.FormatPosition(st.Position),
				Volume:       st.Volume,
			})
			reply(c, string(j))
			continue
		case "RELEASE":
			if s.handOver(c) {
				reply(c, "OK RELEASE")
			} else {
				reply(c, "ERR NOT_OWNER")
			}
			continue
		}

		if !s.claimOwner(c) {
			reply(c, "ERR CONTROL_LOCKED")
			continue
		}

		a, ok := parseControl(cmd, arg)
		if !ok {
			if a.Kind == actionUnknown {
				reply(c, "ERR UNKNOWN")
			} else {
				reply(c, "ERR ARG")
			}
			continue
		}

		if err := s.player.Do(ctx, a); err != nil {
			var oe *player.OpenError
			switch {
			case errors.As(err, &oe):
				reply(c, "ERR OPEN_FAILED")
			case errors.Is(err, player.ErrClosed):
				reply(c, "ERR ENGINE_CLOSED")
			default:
				reply(c, "ERR "+a.Kind.String()+"_FAILED")
			}
			continue
		}
		reply(c, "OK "+a.Kind.String())
	}
}

const actionUnknown player.ActionKind = -1

func parseControl(cmd, arg string) (player.Action, bool) {
	switch cmd {
	case "PLAY":
		if arg == "" {
			return player.Play(""), false
		}
		return player.Play(arg), true
	case "PAUSE":
		return player.Pause(), true
	case "RESUME":
		return player.Resume(), true
	case "STOP":
		return player.Stop(), true
	case "SEEK":
		ms, err := player.ParsePosition(arg)
		if err != nil {
			return player.Seek(0), false
		}
		return player.Seek(ms), true
	case "VOLUME":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return player.SetVolume(0), false
		}
		return player.SetVolume(player.VolumeFromControl(v)), true
	}
	return player.Action{Kind: actionUnknown}, false
}

// reply writes one line. Each line is a single Write so pushed events
// never interleave with it.
func reply(c net.Conn, s string) {
	if _, err := io.WriteString(c, s+"\n"); err != nil {
		log.WithError(err).Debug("reply")
	}
}
