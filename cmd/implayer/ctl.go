/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"

	"implayer/internal/key"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(ctlCmd)
}

var ctlCmd = &cobra.Command{
	Use:   "ctl [command]",
	Short: "Talk to a running server",
	Long: `Send one command to the control socket, or open an interactive session when no command is given.

A single command hands control back before disconnecting, so playback it
started keeps running. Leaving an interactive session stops playback.`,
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := net.Dial("unix", viper.GetString(key.IPCSocket))
		handleErr(err)
		defer conn.Close()

		if len(args) > 0 {
			handleErr(oneShot(conn, strings.Join(args, " "), cmd.OutOrStdout()))
			return
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt: "ctl> ",
			AutoComplete: readline.NewPrefixCompleter(
				readline.PcItem("PING"),
				readline.PcItem("ABOUT"),
				readline.PcItem("STATUS"),
				readline.PcItem("WHOAMI"),
				readline.PcItem("PLAY"),
				readline.PcItem("PAUSE"),
				readline.PcItem("RESUME"),
				readline.PcItem("STOP"),
				readline.PcItem("SEEK"),
				readline.PcItem("VOLUME"),
				readline.PcItem("RELEASE"),
			),
		})
		handleErr(err)
		defer rl.Close()

		// server -> terminal, replies and pushed events alike
		go func() {
			sc := bufio.NewScanner(conn)
			for sc.Scan() {
				fmt.Fprintln(rl.Stdout(), sc.Text())
			}
			fmt.Fprintln(rl.Stdout(), "socket closed")
			rl.Close()
		}()

		for {
			line, err := rl.Readline()
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.EqualFold(line, "quit") {
				return
			}
			if _, err := io.WriteString(conn, line+"\n"); err != nil {
				handleErr(err)
			}
		}
	},
}

// oneShot sends line, prints its reply and hands control back to the
// server so the command outlives the connection.
func oneShot(conn io.ReadWriter, line string, out io.Writer) error {
	r := bufio.NewReader(conn)

	if _, err := io.WriteString(conn, line+"\n"); err != nil {
		return err
	}
	reply, err := readReply(r, out)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, reply); err != nil {
		return err
	}

	if _, err := io.WriteString(conn, "RELEASE\n"); err != nil {
		return err
	}
	_, err = readReply(r, out)
	return err
}

// readReply returns the next reply line, printing pushed events on the way.
func readReply(r *bufio.Reader, out io.Writer) (string, error) {
	for {
		l, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(l, "EVENT ") {
			return l, nil
		}
		if _, err := io.WriteString(out, l); err != nil {
			return "", err
		}
	}
}
