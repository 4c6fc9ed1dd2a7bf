/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package key lists the configuration keys.
package key

const (
	PlayerVolume = "player.volume"
)

const (
	AudioDevice     = "audio.device"
	AudioLatencyMs  = "audio.latency_ms"
	AudioQueueDepth = "audio.queue_depth"
	AudioPacketMs   = "audio.packet_ms"
)

const (
	IPCSocket = "ipc.socket"
)

const (
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
	LogsFile  = "logs.file"
)
