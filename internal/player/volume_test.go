package player

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVolumeFromControl(t *testing.T) {
	Convey("VolumeFromControl", t, func() {
		Convey("Should mute the bottom of the range", func() {
			So(VolumeFromControl(0.4), ShouldEqual, float32(0))
			So(VolumeFromControl(0.1), ShouldEqual, float32(0))
			So(VolumeFromControl(-3), ShouldEqual, float32(0))
		})

		Convey("Should be unity at the top of the range", func() {
			So(VolumeFromControl(1), ShouldEqual, float32(1))
			So(VolumeFromControl(1.5), ShouldEqual, float32(1))
		})

		Convey("Should follow a fourth power curve in between", func() {
			So(VolumeFromControl(0.93), ShouldAlmostEqual, math.Pow(0.93, 4), 1e-6)
			So(VolumeFromControl(0.5), ShouldAlmostEqual, 0.0625, 1e-6)
		})

		Convey("Should treat NaN as silence", func() {
			So(VolumeFromControl(math.NaN()), ShouldEqual, float32(0))
		})

		Convey("Should be monotonic", func() {
			prev := float32(-1)
			for v := 0.4; v <= 1.0; v += 0.01 {
				m := VolumeFromControl(v)
				So(m, ShouldBeGreaterThanOrEqualTo, prev)
				prev = m
			}
		})
	})
}
