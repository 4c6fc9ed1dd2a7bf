/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/faiface/beep"
	"github.com/go-audio/audio"
	"github.com/spf13/afero"
)

// pcmReader cuts the output of a beep decoder into fixed size packets.
// beep decodes inside Stream, so packets already carry samples.
type pcmReader struct {
	file     afero.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	track    Track
	chunk    int
}

func newPCMReader(name string, file afero.File, s beep.StreamSeekCloser, format beep.Format) *pcmReader {
	chunk := format.SampleRate.N(PacketDuration)
	if chunk <= 0 {
		chunk = 1024
	}

	var frames uint64
	if n := s.Len(); n > 0 {
		frames = uint64(n)
	}

	return &pcmReader{
		file:     file,
		streamer: s,
		format:   format,
		chunk:    chunk,
		track: Track{
			Codec:      name,
			SampleRate: int(format.SampleRate),
			Channels:   format.NumChannels,
			TimeBase:   NewTimeBase(int(format.SampleRate)),
			NFrames:    frames,
		},
	}
}

func (r *pcmReader) Track() Track { return r.track }

func (r *pcmReader) NextPacket() (Packet, error) {
	ts := uint64(r.streamer.Position())

	buf := make([][2]float64, r.chunk)
	n, ok := r.streamer.Stream(buf)
	if n == 0 {
		if err := r.streamer.Err(); err != nil {
			return Packet{}, fmt.Errorf("%s stream: %w", r.track.Codec, err)
		}
		return Packet{}, io.EOF
	}
	if !ok {
		if err := r.streamer.Err(); err != nil {
			return Packet{}, fmt.Errorf("%s stream: %w", r.track.Codec, err)
		}
	}

	return Packet{TS: ts, Dur: uint64(n), pcm: buf[:n]}, nil
}

// Seek is always sample exact for beep streamers, so both modes behave the same.
func (r *pcmReader) Seek(_ SeekMode, to Time) error {
	target := r.track.TimeBase.CalcTimestamp(to)
	if l := r.streamer.Len(); l > 0 && target > uint64(l) {
		return fmt.Errorf("%w: %d > %d", ErrSeekOutOfRange, target, l)
	}
	if err := r.streamer.Seek(int(target)); err != nil {
		return fmt.Errorf("%s seek: %w", r.track.Codec, err)
	}
	return nil
}

func (r *pcmReader) Close() error {
	err := r.streamer.Close()
	// some beep decoders already closed the source
	_ = r.file.Close()
	return err
}

type pcmDecoder struct {
	format *audio.Format
}

func newPCMDecoder(track Track) *pcmDecoder {
	channels := track.Channels
	if channels < 1 || channels > 2 {
		channels = 2
	}
	return &pcmDecoder{format: &audio.Format{NumChannels: channels, SampleRate: track.SampleRate}}
}

func (d *pcmDecoder) Decode(p Packet) (*audio.FloatBuffer, error) {
	if p.pcm == nil {
		return nil, &DecodeError{TS: p.TS, Err: errors.New("packet carries no samples")}
	}

	frames := p.pcm
	if p.trimStart > 0 && p.trimStart < len(frames) {
		frames = frames[p.trimStart:]
	}

	ch := d.format.NumChannels
	data := make([]float64, 0, len(frames)*ch)
	for _, f := range frames {
		if isBad(f[0]) || isBad(f[1]) {
			return nil, &DecodeError{TS: p.TS, Err: errors.New("non-finite sample")}
		}
		data = append(data, f[0])
		if ch == 2 {
			data = append(data, f[1])
		}
	}

	return &audio.FloatBuffer{Format: d.format, Data: data}, nil
}

func (d *pcmDecoder) Reset() {}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
