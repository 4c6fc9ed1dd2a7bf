/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package codec demuxes and decodes audio files into packets and PCM buffers.
package codec

import (
	"errors"
	"fmt"

	"github.com/go-audio/audio"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrSeekOutOfRange    = errors.New("seek target beyond end of stream")
	ErrNoTimeBase        = errors.New("track has no time base")
	ErrUnknownLength     = errors.New("track length unknown")
)

// DecodeError marks a single malformed packet. The stream itself is still
// usable and decoding may continue with the next packet.
type DecodeError struct {
	TS  uint64
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode packet at ts %d: %v", e.TS, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err only affects the current packet.
func IsRecoverable(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

type SeekMode int

const (
	// SeekCoarse lands on the start of the packet holding the target.
	SeekCoarse SeekMode = iota
	// SeekAccurate makes the next decoded buffer start exactly at the target.
	SeekAccurate
)

// Track describes the single audio track of an opened file.
type Track struct {
	Codec      string
	SampleRate int
	Channels   int
	TimeBase   TimeBase
	StartTS    uint64
	NFrames    uint64 // 0 when unknown
}

// Packet is one unit of encoded (or, for PCM-backed readers, already
// decoded) audio. TS and Dur are expressed in the track time base.
type Packet struct {
	TS   uint64
	Dur  uint64
	Data []byte

	// leading samples per channel the decoder drops after an accurate seek
	trimStart int
	pcm       [][2]float64
}

// Reader is a demuxer positioned on the next packet of one track.
type Reader interface {
	Track() Track
	// NextPacket returns io.EOF once the stream is exhausted.
	NextPacket() (Packet, error)
	Seek(mode SeekMode, to Time) error
	Close() error
}

// Decoder turns packets into interleaved float PCM. A *DecodeError means
// only this packet was lost.
type Decoder interface {
	Decode(p Packet) (*audio.FloatBuffer, error)
	Reset()
}
