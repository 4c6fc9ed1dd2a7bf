/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"implayer/internal/log"
	"implayer/internal/player"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file>...",
	Short: "Play files with an interactive console",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine()
		handleErr(err)

		rl, err := readline.NewEx(&readline.Config{
			Prompt: "implayer> ",
			AutoComplete: readline.NewPrefixCompleter(
				readline.PcItem("pause"),
				readline.PcItem("resume"),
				readline.PcItem("stop"),
				readline.PcItem("seek"),
				readline.PcItem("vol"),
				readline.PcItem("pos"),
				readline.PcItem("next"),
				readline.PcItem("quit"),
			),
		})
		handleErr(err)
		defer rl.Close()

		handleErr(runConsole(ctx, engine, args, rl.Stdout(), rl.Readline))
	},
}

// console drives an engine through a play queue.
type console struct {
	engine *player.Engine
	out    io.Writer

	mu    sync.Mutex
	queue []string
	index int
	// current is the path the console last started, empty after a stop
	current string
}

func newConsole(e *player.Engine, queue []string, out io.Writer) *console {
	return &console{engine: e, out: out, queue: queue, index: -1}
}

// runConsole plays queue and executes lines from readLine until quit, EOF
// or ctx is done.
func runConsole(ctx context.Context, e *player.Engine, queue []string, out io.Writer, readLine func() (string, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	c := newConsole(e, queue, out)
	go c.follow(ctx)
	c.advance(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := readLine()
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || c.exec(ctx, line) {
				break loop
			}
		}
	}

	e.Close()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// follow moves to the next file whenever a track completes.
func (c *console) follow(ctx context.Context) {
	for {
		comp, err := c.engine.Completion(ctx)
		if err != nil {
			return
		}
		c.completed(ctx, comp)
	}
}

// completed advances the queue unless comp belongs to a track the user
// already moved away from.
func (c *console) completed(ctx context.Context, comp player.Completion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if comp.Path != c.current || c.engine.State() != player.StateIdle {
		log.WithFields(log.Fields{"path": comp.Path}).Debug("stale completion")
		return
	}
	if comp.Reason == player.ReasonFailed {
		c.printf("failed: %s: %v\n", comp.Path, comp.Err)
	} else {
		c.printf("finished: %s\n", comp.Path)
	}
	c.advanceLocked(ctx)
}

// advance plays the next file in the queue that can be opened.
func (c *console) advance(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked(ctx)
}

func (c *console) advanceLocked(ctx context.Context) {
	c.current = ""
	for c.index+1 < len(c.queue) {
		c.index++
		path := c.queue[c.index]
		err := c.engine.Play(ctx, path)
		if err == nil {
			c.current = path
			c.printf("playing [%d/%d] %s\n", c.index+1, len(c.queue), path)
			return
		}
		if ctx.Err() != nil || errors.Is(err, player.ErrClosed) {
			return
		}
		c.printf("skip: %v\n", err)
	}
	c.printf("end of queue\n")
}

// exec runs one console command and reports whether to quit.
func (c *console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	var err error
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true
	case "pause":
		err = c.engine.Do(ctx, player.Pause())
	case "resume":
		err = c.engine.Do(ctx, player.Resume())
	case "stop":
		c.mu.Lock()
		if err = c.engine.Do(ctx, player.Stop()); err == nil {
			c.current = ""
		}
		c.mu.Unlock()
	case "seek":
		var ms int64
		if ms, err = player.ParsePosition(arg); err == nil {
			err = c.engine.Do(ctx, player.Seek(ms))
		}
	case "vol":
		var v float64
		if v, err = strconv.ParseFloat(arg, 64); err == nil {
			err = c.engine.Do(ctx, player.SetVolume(player.VolumeFromControl(v)))
		}
	case "pos", "status":
		st := c.engine.Status()
		c.printf("%s %s %s vol=%.3f\n", st.State, player.FormatPosition(st.Position), st.Path, st.Volume)
	case "next":
		err = c.next(ctx)
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		c.printf("error: %v\n", err)
	}
	return false
}

// next stops the current track and plays the following one. A completion
// the stopped track left behind is dropped so it cannot skip another file.
func (c *console) next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.engine.Do(ctx, player.Stop()); err != nil {
		return err
	}
	for {
		if _, ok := c.engine.PollCompletion(); !ok {
			break
		}
	}
	c.advanceLocked(ctx)
	return nil
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
