/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import (
	"implayer/internal/codec"
	"implayer/internal/log"
	"implayer/internal/output"
)

// session is the decode context of the one loaded track. Only the engine
// goroutine touches it.
type session struct {
	path     string
	reader   codec.Reader
	decoder  codec.Decoder
	timeBase codec.TimeBase
	sink     output.Sink // nil until the first buffer is decoded
}

func (s *session) seek(ms int64) error {
	if err := s.reader.Seek(codec.SeekAccurate, codec.FromMillis(ms)); err != nil {
		return err
	}
	s.decoder.Reset()
	return nil
}

// close releases the sink without waiting for queued audio, then the reader.
func (s *session) close() {
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			log.WithFields(log.Fields{"path": s.path}).WithError(err).Warn("close output")
		}
		s.sink = nil
	}
	if err := s.reader.Close(); err != nil {
		log.WithFields(log.Fields{"path": s.path}).WithError(err).Debug("close reader")
	}
}
