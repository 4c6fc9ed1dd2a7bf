/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"errors"
	"fmt"
	"io"

	"implayer/pkg/spec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hraban/opus"
)

var ErrWavFormat = errors.New("wav must be 48kHz stereo 16/24-bit PCM")

type EncoderResult struct {
	Frame []byte
	Error error
}

// StreamEncodeWav encodes a 48kHz stereo WAV into opus frames sent on
// resultChan, one frame per packet. resultChan is closed on return. The
// returned duration is in seconds.
func StreamEncodeWav(input io.ReadSeeker, resultChan chan<- EncoderResult) (float64, error) {
	defer close(resultChan)

	dec := wav.NewDecoder(input)
	if !dec.IsValidFile() {
		return 0, ErrWavFormat
	}
	if dec.SampleRate != spec.SampleRate || dec.NumChans != spec.Channels {
		return 0, fmt.Errorf("%w: got %dHz %dch", ErrWavFormat, dec.SampleRate, dec.NumChans)
	}
	shift := 0
	switch dec.BitDepth {
	case 16:
	case 24:
		shift = 8
	default:
		return 0, fmt.Errorf("%w: got %d-bit", ErrWavFormat, dec.BitDepth)
	}

	enc, err := opus.NewEncoder(spec.SampleRate, spec.Channels, opus.AppAudio)
	if err != nil {
		return 0, err
	}

	frameSize := spec.FrameSamples()
	channels := spec.Channels
	pcmBuf := make([]int16, frameSize*channels)
	opusBuf := make([]byte, spec.MaxPacketBytes)

	// read one second per I/O cycle
	intBuf := &audio.IntBuffer{
		Data:   make([]int, spec.SampleRate*channels),
		Format: &audio.Format{NumChannels: channels, SampleRate: spec.SampleRate},
	}

	totalSamples := 0
	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i += len(pcmBuf) {
			batch := len(pcmBuf)
			if i+batch > n {
				batch = n - i
				// pad the tail frame with silence
				for j := range pcmBuf {
					pcmBuf[j] = 0
				}
			}

			for j := 0; j < batch; j++ {
				pcmBuf[j] = int16(intBuf.Data[i+j] >> shift)
			}

			size, err := enc.Encode(pcmBuf, opusBuf)
			if err != nil {
				resultChan <- EncoderResult{Error: err}
				return 0, err
			}

			frame := make([]byte, size)
			copy(frame, opusBuf[:size])
			resultChan <- EncoderResult{Frame: frame}
			totalSamples += batch
		}

		if err == io.EOF {
			break
		}
	}

	return float64(totalSamples) / float64(spec.SampleRate) / float64(channels), nil
}

type PackStats struct {
	Packets  int
	Bytes    int64
	Duration float64
}

// PackWav writes input as an opf stream to output. The encoder runs in its
// own goroutine while packets are framed as they arrive.
func PackWav(input io.ReadSeeker, output io.Writer) (PackStats, error) {
	var stats PackStats

	if err := DefaultOpfHeader().Write(output); err != nil {
		return stats, err
	}
	stats.Bytes = OpfHeaderSize

	frames := make(chan EncoderResult, 16)
	done := make(chan error, 1)
	go func() {
		d, err := StreamEncodeWav(input, frames)
		stats.Duration = d
		done <- err
	}()

	var writeErr error
	for res := range frames {
		if res.Error != nil || writeErr != nil {
			continue
		}
		if writeErr = WritePacket(output, res.Frame); writeErr == nil {
			stats.Packets++
			stats.Bytes += int64(2 + len(res.Frame))
		}
	}

	if err := <-done; err != nil {
		return stats, err
	}
	return stats, writeErr
}
