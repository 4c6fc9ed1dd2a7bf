/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPosition renders ms as m:ss, or h:mm:ss from one hour on.
func FormatPosition(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	const (
		second = 1000
		minute = 60 * second
		hour   = 60 * minute
	)

	if ms >= hour {
		return fmt.Sprintf("%d:%02d:%02d", ms/hour, ms%hour/minute, ms%minute/second)
	}
	return fmt.Sprintf("%d:%02d", ms/minute, ms%minute/second)
}

// ParsePosition accepts "m:ss", "h:mm:ss" or a plain millisecond count.
func ParsePosition(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty position")
	}

	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil || ms < 0 {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		return ms, nil
	}
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid position %q", s)
	}

	var total int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 || (i > 0 && n >= 60) {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		total = total*60 + n
	}
	return total * 1000, nil
}
