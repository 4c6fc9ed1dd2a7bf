/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"implayer/pkg/audioengine"

	"github.com/go-audio/audio"
	"github.com/spf13/afero"
)

const codecOpus = "opus"

// opfReader walks a stream of length-prefixed opus packets. The packet
// offsets are indexed on open, so seeking and length are exact without
// touching the payloads.
type opfReader struct {
	file   afero.File
	header audioengine.OpfHeader
	track  Track
	index  []int64
	next   int
	trim   int
}

func newOpfReader(file afero.File) (*opfReader, error) {
	h, err := audioengine.ReadOpfHeader(file)
	if err != nil {
		return nil, err
	}

	index, err := indexPackets(file)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(audioengine.OpfHeaderSize, io.SeekStart); err != nil {
		return nil, err
	}

	return &opfReader{
		file:   file,
		header: h,
		index:  index,
		track: Track{
			Codec:      codecOpus,
			SampleRate: int(h.SampleRate),
			Channels:   int(h.Channels),
			TimeBase:   NewTimeBase(int(h.SampleRate)),
			NFrames:    uint64(len(index)) * uint64(h.FrameSamples),
		},
	}, nil
}

// indexPackets records the offset of every complete packet. A truncated
// tail is treated as the end of the stream.
func indexPackets(file afero.File) ([]int64, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var index []int64
	offset := int64(audioengine.OpfHeaderSize)

	for {
		var size uint16
		if err := binary.Read(file, binary.BigEndian, &size); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, err
		}
		end, err := file.Seek(int64(size), io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if end > stat.Size() {
			break
		}
		index = append(index, offset)
		offset = end
	}

	return index, nil
}

func (r *opfReader) Track() Track { return r.track }

func (r *opfReader) NextPacket() (Packet, error) {
	if r.next >= len(r.index) {
		return Packet{}, io.EOF
	}

	var size uint16
	if err := binary.Read(r.file, binary.BigEndian, &size); err != nil {
		return Packet{}, fmt.Errorf("read packet %d: %w", r.next, err)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return Packet{}, fmt.Errorf("read packet %d: %w", r.next, err)
	}

	frame := uint64(r.header.FrameSamples)
	p := Packet{
		TS:        uint64(r.next)*frame + uint64(r.trim),
		Dur:       frame - uint64(r.trim),
		Data:      data,
		trimStart: r.trim,
	}
	r.next++
	r.trim = 0
	return p, nil
}

func (r *opfReader) Seek(mode SeekMode, to Time) error {
	frame := uint64(r.header.FrameSamples)
	target := r.track.TimeBase.CalcTimestamp(to)
	if target > r.track.NFrames {
		return fmt.Errorf("%w: %d > %d", ErrSeekOutOfRange, target, r.track.NFrames)
	}

	k := int(target / frame)
	trim := 0
	if mode == SeekAccurate {
		trim = int(target % frame)
	}

	if k < len(r.index) {
		if _, err := r.file.Seek(r.index[k], io.SeekStart); err != nil {
			return fmt.Errorf("opf seek: %w", err)
		}
	}
	r.next = k
	r.trim = trim
	return nil
}

func (r *opfReader) Close() error {
	return r.file.Close()
}

type opfDecoder struct {
	sd     *audioengine.StreamDecoder
	format *audio.Format
}

func newOpfDecoder(track Track) (*opfDecoder, error) {
	sd, err := audioengine.NewStreamDecoder(track.SampleRate, track.Channels)
	if err != nil {
		return nil, fmt.Errorf("opus decoder: %w", err)
	}
	return &opfDecoder{
		sd:     sd,
		format: &audio.Format{NumChannels: track.Channels, SampleRate: track.SampleRate},
	}, nil
}

func (d *opfDecoder) Decode(p Packet) (*audio.FloatBuffer, error) {
	samples, err := d.sd.DecodeFrame(p.Data)
	if err != nil {
		return nil, &DecodeError{TS: p.TS, Err: err}
	}

	ch := d.format.NumChannels
	if skip := p.trimStart * ch; skip > 0 && skip < len(samples) {
		samples = samples[skip:]
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = float64(s) / 32768.0
	}
	return &audio.FloatBuffer{Format: d.format, Data: data}, nil
}

func (d *opfDecoder) Reset() {
	// on failure the old state is kept; the next packets only sound off briefly
	_ = d.sd.Reset()
}
