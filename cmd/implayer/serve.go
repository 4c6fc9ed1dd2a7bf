/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"implayer/internal/ipc"
	"implayer/internal/key"
	"implayer/internal/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine behind the control socket",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine()
		handleErr(err)

		sock := viper.GetString(key.IPCSocket)
		ln, err := ipc.Listen(sock)
		handleErr(err)
		log.WithFields(log.Fields{"socket": sock}).Info("listening")

		done := make(chan error, 1)
		go func() { done <- engine.Run(ctx) }()

		serveErr := ipc.NewServer(engine).Serve(ctx, ln)
		stop()
		engine.Close()

		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			handleErr(err)
		}
		handleErr(serveErr)
		log.Infof("%s stopped", sock)
	},
}
