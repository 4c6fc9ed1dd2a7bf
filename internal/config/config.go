/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package config sets up viper defaults, environment bindings and the
// optional config file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"implayer/internal/filesystem"
	"implayer/internal/key"
	"implayer/pkg/spec"

	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

type Field struct {
	Key         string
	Value       any
	Description string
}

// Default holds every known key with its factory value.
var Default = map[string]Field{}

func define(f Field) {
	Default[f.Key] = f
}

func init() {
	define(Field{key.PlayerVolume, spec.VolumeControlDefault, "Initial volume control value (0.4 - 1.0)"})
	define(Field{key.AudioDevice, "speaker", `Output device: "speaker" or "null"`})
	define(Field{key.AudioLatencyMs, 100, "Device buffer length in milliseconds"})
	define(Field{key.AudioQueueDepth, 8, "Decoded buffers queued ahead of the device"})
	define(Field{key.AudioPacketMs, spec.FrameSize, "Packet length for PCM formats in milliseconds"})
	define(Field{key.IPCSocket, "/tmp/" + spec.AppName + ".sock", "Unix socket of the control server"})
	define(Field{key.LogsLevel, "info", "Log level"})
	define(Field{key.LogsJson, false, "Write logs as JSON"})
	define(Field{key.LogsFile, "", "Write logs to this file instead of stderr"})
}

// Env returns the environment variable that overrides f.
func (f Field) Env() string {
	return strings.ToUpper(spec.AppName + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Dir is where the config file is looked up.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, spec.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", spec.AppName)
}

func Setup() error {
	viper.SetConfigName(spec.AppName)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	if dir := Dir(); dir != "" {
		viper.AddConfigPath(dir)
	}

	viper.SetEnvPrefix(spec.AppName)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
