/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import "math"

// Time is a codec native timestamp: whole seconds plus a fractional
// remainder in [0,1).
type Time struct {
	Seconds uint64
	Frac    float64
}

// TimeBase converts timestamps counted in Numer/Denom second units to Time.
type TimeBase struct {
	Numer uint32
	Denom uint32
}

// NewTimeBase returns the time base of a stream sampled at rate frames per second.
func NewTimeBase(rate int) TimeBase {
	return TimeBase{Numer: 1, Denom: uint32(rate)}
}

// CalcTime converts ts to a Time.
func (tb TimeBase) CalcTime(ts uint64) Time {
	if tb.Denom == 0 {
		return Time{}
	}
	n := ts * uint64(tb.Numer)
	d := uint64(tb.Denom)
	return Time{
		Seconds: n / d,
		Frac:    float64(n%d) / float64(d),
	}
}

// CalcTimestamp converts t to a timestamp in this time base, truncating
// anything finer than one unit.
func (tb TimeBase) CalcTimestamp(t Time) uint64 {
	if tb.Numer == 0 {
		return 0
	}
	d := uint64(tb.Denom)
	whole := t.Seconds * d / uint64(tb.Numer)
	// small epsilon so 0.123*48000 lands on 5904, not 5903
	frac := uint64(math.Floor(t.Frac*float64(d)/float64(tb.Numer) + 1e-6))
	return whole + frac
}

// ToMillis converts t to integer milliseconds.
func ToMillis(t Time) int64 {
	return int64(t.Seconds)*1000 + int64(math.Round(t.Frac*1000))
}

// FromMillis converts a millisecond position to a Time. Negative values clamp to zero.
func FromMillis(ms int64) Time {
	if ms < 0 {
		ms = 0
	}
	return Time{
		Seconds: uint64(ms / 1000),
		Frac:    float64(ms%1000) / 1000.0,
	}
}
