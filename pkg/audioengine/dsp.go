/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

// ApplyGain writes src scaled by factor into dst, clipping to [-1, 1].
// src is never modified. dst must be at least as long as src.
func ApplyGain(dst, src []float64, factor float64) {
	for i, v := range src {
		val := v * factor
		if val > 1 {
			val = 1
		} else if val < -1 {
			val = -1
		}
		dst[i] = val
	}
}
