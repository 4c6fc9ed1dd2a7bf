/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"implayer/pkg/spec"

	"github.com/hraban/opus"
)

// StreamDecoder decodes single opus packets into interleaved int16 PCM.
type StreamDecoder struct {
	dec      *opus.Decoder
	rate     int
	channels int
	pcm      []int16
}

func NewStreamDecoder(rate, channels int) (*StreamDecoder, error) {
	d, err := opus.NewDecoder(rate, channels)
	if err != nil {
		return nil, err
	}
	return &StreamDecoder{
		dec:      d,
		rate:     rate,
		channels: channels,
		pcm:      make([]int16, spec.MaxFrameSamples*channels),
	}, nil
}

// DecodeFrame returns the interleaved samples of one packet. The slice is
// reused by the next call.
func (sd *StreamDecoder) DecodeFrame(frame []byte) ([]int16, error) {
	n, err := sd.dec.Decode(frame, sd.pcm)
	if err != nil {
		return nil, err
	}
	return sd.pcm[:n*sd.channels], nil
}

// Reset drops the inter-packet prediction state, used after a seek.
func (sd *StreamDecoder) Reset() error {
	d, err := opus.NewDecoder(sd.rate, sd.channels)
	if err != nil {
		return err
	}
	sd.dec = d
	return nil
}
