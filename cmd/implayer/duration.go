/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"errors"

	"implayer/internal/codec"
	"implayer/internal/filesystem"
	"implayer/internal/player"

	"github.com/spf13/cobra"
)

var errDurationFailed = errors.New("some files could not be measured")

func init() {
	rootCmd.AddCommand(durationCmd)
}

var durationCmd = &cobra.Command{
	Use:   "duration <file>...",
	Short: "Print the length of audio files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			ms, err := codec.Duration(filesystem.API(), path)
			if err != nil {
				cmd.PrintErrf("%s: %v\n", path, err)
				failed = true
				continue
			}
			cmd.Printf("%s\t%s\t%dms\n", path, player.FormatPosition(ms), ms)
		}
		if failed {
			handleErr(errDurationFailed)
		}
	},
}
