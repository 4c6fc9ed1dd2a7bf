/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package log wraps logrus with the configured level, format and output.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"implayer/internal/filesystem"
	"implayer/internal/key"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Fields = logrus.Fields

var (
	logger = logrus.New()

	mu sync.Mutex
	// file is the open log file, if output goes to one
	file io.WriteCloser
)

// Setup applies the logs.* keys. It may be called again after the config
// changes; a previously opened log file is closed.
func Setup() error {
	var (
		out io.Writer = os.Stderr
		f   io.WriteCloser
	)
	if path := viper.GetString(key.LogsFile); path != "" {
		af, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out, f = af, af
	}
	swapOutput(out, f)

	if viper.GetBool(key.LogsJson) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return nil
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	swapOutput(w, nil)
}

func swapOutput(w io.Writer, f io.WriteCloser) {
	mu.Lock()
	defer mu.Unlock()

	logger.SetOutput(w)
	if file != nil && file != f {
		_ = file.Close()
	}
	file = f
}

func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}

func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
