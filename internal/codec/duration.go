/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import "github.com/spf13/afero"

// Duration returns the length of path in milliseconds, computed from the
// frame count and time base of its track without decoding audio.
func Duration(fsys afero.Fs, path string) (int64, error) {
	r, err := Open(fsys, path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	return TrackDuration(r.Track())
}

func TrackDuration(t Track) (int64, error) {
	if t.TimeBase.Denom == 0 {
		return 0, ErrNoTimeBase
	}
	if t.NFrames == 0 {
		return 0, ErrUnknownLength
	}
	return ToMillis(t.TimeBase.CalcTime(t.StartTS + t.NFrames)), nil
}
