package codec

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeConversion(t *testing.T) {
	Convey("Millisecond conversion", t, func() {
		Convey("Should round-trip every millisecond below 10,000,000", func() {
			bad := -1
			for ms := int64(0); ms < 10_000_000; ms++ {
				if ToMillis(FromMillis(ms)) != ms {
					bad = int(ms)
					break
				}
			}
			So(bad, ShouldEqual, -1)
		})

		Convey("Should split seconds and fraction", func() {
			tm := FromMillis(83_250)
			So(tm.Seconds, ShouldEqual, 83)
			So(tm.Frac, ShouldAlmostEqual, 0.25)
		})

		Convey("Should round the fraction to the nearest millisecond", func() {
			So(ToMillis(Time{Seconds: 1, Frac: 0.0004}), ShouldEqual, 1000)
			So(ToMillis(Time{Seconds: 1, Frac: 0.0006}), ShouldEqual, 1001)
		})

		Convey("Should clamp negative positions to zero", func() {
			So(FromMillis(-5), ShouldResemble, Time{})
		})
	})

	Convey("TimeBase", t, func() {
		tb := NewTimeBase(48000)

		Convey("Should convert sample indices to time", func() {
			So(ToMillis(tb.CalcTime(48000)), ShouldEqual, 1000)
			So(ToMillis(tb.CalcTime(960)), ShouldEqual, 20)
			So(ToMillis(tb.CalcTime(72000)), ShouldEqual, 1500)
		})

		Convey("Should convert time back to sample indices", func() {
			So(tb.CalcTimestamp(FromMillis(1500)), ShouldEqual, 72000)
			So(tb.CalcTimestamp(FromMillis(123)), ShouldEqual, 5904)
			So(NewTimeBase(44100).CalcTimestamp(FromMillis(500)), ShouldEqual, 22050)
		})

		Convey("Should treat a zero base as no time", func() {
			So(TimeBase{}.CalcTime(100), ShouldResemble, Time{})
			So(TimeBase{}.CalcTimestamp(FromMillis(100)), ShouldEqual, 0)
		})
	})
}
