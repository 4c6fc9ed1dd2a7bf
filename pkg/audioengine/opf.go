/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"implayer/pkg/spec"
)

var ErrInvalidMagic = errors.New("invalid opf magic")

// OpfHeader opens every opf stream:
//
//	magic[8] | rate u32 | channels u16 | frame samples u16
//
// followed by packets framed as u16 length + payload, all big endian.
type OpfHeader struct {
	SampleRate   uint32
	Channels     uint16
	FrameSamples uint16
}

const OpfHeaderSize = 8 + 4 + 2 + 2

func DefaultOpfHeader() OpfHeader {
	return OpfHeader{
		SampleRate:   spec.SampleRate,
		Channels:     spec.Channels,
		FrameSamples: uint16(spec.FrameSamples()),
	}
}

func (h OpfHeader) Write(w io.Writer) error {
	if _, err := io.WriteString(w, spec.OpfMagic); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, h)
}

func ReadOpfHeader(r io.Reader) (OpfHeader, error) {
	var h OpfHeader

	magic := make([]byte, len(spec.OpfMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic) != spec.OpfMagic {
		return h, fmt.Errorf("%w: %q", ErrInvalidMagic, string(magic))
	}

	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return h, fmt.Errorf("failed to read header: %w", err)
	}
	if h.SampleRate == 0 || h.Channels == 0 || h.Channels > 2 || h.FrameSamples == 0 {
		return h, fmt.Errorf("invalid opf header %+v", h)
	}
	return h, nil
}

// WritePacket frames one encoded packet.
func WritePacket(w io.Writer, packet []byte) error {
	if len(packet) > 0xFFFF {
		return fmt.Errorf("packet too large: %d bytes", len(packet))
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(packet))); err != nil {
		return err
	}
	_, err := w.Write(packet)
	return err
}
