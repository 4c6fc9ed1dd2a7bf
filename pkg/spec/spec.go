/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package spec

const (
	// === IDENTITY & VERSIONING ===
	AppName      = "implayer"
	VersionMajor = 1
	VersionMinor = 0

	// === MAGIC NUMBERS (OPF - OPUS PACKET FRAMES) ===
	OpfMagic     = "IMPOPF01"
	OpfExtension = ".opf"

	// === ENGINE SPECS ===
	SampleRate = 48000
	Channels   = 2
	FrameSize  = 20 // ms per packet

	// Largest opus frame the decoder has to hold (120 ms @ 48kHz).
	MaxFrameSamples = 5760

	// Largest encoded packet written by the packer.
	MaxPacketBytes = 1500

	// === VOLUME CONTROL ===
	VolumeControlMin     = 0.4
	VolumeControlMax     = 1.0
	VolumeControlDefault = 0.93
)

// FrameSamples is the number of samples per channel in one opf packet.
func FrameSamples() int {
	return SampleRate / 1000 * FrameSize
}
