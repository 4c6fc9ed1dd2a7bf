/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"implayer/pkg/spec"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/spf13/afero"
)

// PacketDuration is the length of the packets cut from PCM-backed formats.
var PacketDuration = spec.FrameSize * time.Millisecond

// Open opens path and positions a reader on its first packet.
func Open(fsys afero.Fs, path string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
		name   string
	)

	switch ext {
	case ".mp3":
		name = "mp3"
		s, format, err = mp3.Decode(f)
	case ".flac":
		name = "flac"
		s, format, err = flac.Decode(f)
	case ".wav":
		name = "wav"
		s, format, err = wav.Decode(f)
	case spec.OpfExtension:
		r, err := newOpfReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		return r, nil
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		f.Close()
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return newPCMReader(name, f, s, format), nil
}

// NewDecoder returns a decoder for the packets of track.
func NewDecoder(track Track) (Decoder, error) {
	if track.Codec == codecOpus {
		return newOpfDecoder(track)
	}
	return newPCMDecoder(track), nil
}

// Probe opens path and builds the matching decoder.
func Probe(fsys afero.Fs, path string) (Reader, Decoder, error) {
	r, err := Open(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	d, err := NewDecoder(r.Track())
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, d, nil
}
