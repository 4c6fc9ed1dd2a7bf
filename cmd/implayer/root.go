/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"implayer/internal/codec"
	"implayer/internal/key"
	"implayer/internal/log"
	"implayer/internal/output"
	"implayer/internal/player"
	"implayer/pkg/spec"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(func() {
		handleErr(log.Setup())
	})

	rootCmd.PersistentFlags().StringP("device", "d", "", `Output device: "speaker" or "null"`)
	lo.Must0(viper.BindPFlag(key.AudioDevice, rootCmd.PersistentFlags().Lookup("device")))

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	lo.Must0(viper.BindPFlag(key.LogsLevel, rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.PersistentFlags().String("socket", "", "Unix socket of the control server")
	lo.Must0(viper.BindPFlag(key.IPCSocket, rootCmd.PersistentFlags().Lookup("socket")))

	rootCmd.PersistentFlags().Float64P("volume", "V", 0, "Initial volume control value (0.4 - 1.0)")
	lo.Must0(viper.BindPFlag(key.PlayerVolume, rootCmd.PersistentFlags().Lookup("volume")))
}

var rootCmd = &cobra.Command{
	Use:     spec.AppName,
	Short:   "Background audio playback engine",
	Version: fmt.Sprintf("%d.%d", spec.VersionMajor, spec.VersionMinor),
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.WithError(err).Error("fatal")
		_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", spec.AppName, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}

// newEngine builds an engine from the current configuration.
func newEngine() (*player.Engine, error) {
	if ms := viper.GetInt(key.AudioPacketMs); ms > 0 {
		codec.PacketDuration = time.Duration(ms) * time.Millisecond
	}

	open, err := output.NewOpener(output.Options{
		Device:     viper.GetString(key.AudioDevice),
		Latency:    time.Duration(viper.GetInt(key.AudioLatencyMs)) * time.Millisecond,
		QueueDepth: viper.GetInt(key.AudioQueueDepth),
	})
	if err != nil {
		return nil, err
	}

	return player.New(player.Options{
		Output:        open,
		VolumeControl: viper.GetFloat64(key.PlayerVolume),
	}), nil
}
