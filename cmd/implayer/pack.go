/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"os"

	"implayer/internal/filesystem"
	"implayer/internal/log"
	"implayer/pkg/audioengine"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack <in.wav> <out.opf>",
	Short: "Encode a 48kHz stereo WAV into an opf stream",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		in, err := filesystem.API().Open(args[0])
		handleErr(err)
		defer in.Close()

		out, err := filesystem.API().OpenFile(args[1], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		handleErr(err)

		stats, err := audioengine.PackWav(in, out)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = filesystem.API().Remove(args[1])
			handleErr(err)
		}

		log.WithFields(log.Fields{
			"packets":  stats.Packets,
			"bytes":    stats.Bytes,
			"duration": stats.Duration,
		}).Info("packed")
		cmd.Printf("%s: %d packets, %.2fs\n", args[1], stats.Packets, stats.Duration)
	},
}
