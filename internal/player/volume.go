/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import (
	"math"

	"implayer/pkg/spec"

	"github.com/samber/lo"
)

// VolumeFromControl maps a volume control value to the linear multiplier
// the engine expects: v^4 for a perceptual curve, with the bottom of the
// control range forced to exact silence.
func VolumeFromControl(v float64) float32 {
	if math.IsNaN(v) {
		return 0
	}
	v = lo.Clamp(v, spec.VolumeControlMin, spec.VolumeControlMax)
	if v <= spec.VolumeControlMin {
		return 0
	}
	return float32(math.Pow(v, 4))
}

func clampVolume(m float32) float32 {
	if m != m { // NaN
		return 0
	}
	return lo.Clamp(m, 0, 1)
}
