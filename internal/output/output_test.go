package output

import (
	"errors"
	"testing"
	"time"

	"github.com/go-audio/audio"
	. "github.com/smartystreets/goconvey/convey"
)

func stereo(data ...float64) *audio.FloatBuffer {
	return &audio.FloatBuffer{Format: &audio.Format{NumChannels: 2, SampleRate: 48000}, Data: data}
}

func TestFeed(t *testing.T) {
	Convey("Feed", t, func() {
		f := newFeed(2)

		Convey("Should play silence while empty", func() {
			out := [][2]float64{{1, 1}, {1, 1}}
			n, ok := f.Stream(out)
			So(n, ShouldEqual, 2)
			So(ok, ShouldBeTrue)
			So(out, ShouldResemble, [][2]float64{{0, 0}, {0, 0}})
		})

		Convey("Should play queued chunks in order across Stream calls", func() {
			So(f.push(chunk{frames: [][2]float64{{1, 1}, {2, 2}, {3, 3}}}), ShouldBeNil)
			So(f.push(chunk{frames: [][2]float64{{4, 4}}}), ShouldBeNil)

			out := make([][2]float64, 2)
			f.Stream(out)
			So(out, ShouldResemble, [][2]float64{{1, 1}, {2, 2}})

			out = make([][2]float64, 3)
			f.Stream(out)
			So(out, ShouldResemble, [][2]float64{{3, 3}, {4, 4}, {0, 0}})
		})

		Convey("Should signal flush markers once reached", func() {
			done := make(chan struct{})
			So(f.push(chunk{frames: [][2]float64{{1, 1}}}), ShouldBeNil)
			So(f.push(chunk{done: done}), ShouldBeNil)

			f.Stream(make([][2]float64, 4))
			select {
			case <-done:
			default:
				So("marker not reached", ShouldBeEmpty)
			}
		})

		Convey("Should block writers while full and release them on close", func() {
			So(f.push(chunk{frames: [][2]float64{{1, 1}}}), ShouldBeNil)
			So(f.push(chunk{frames: [][2]float64{{1, 1}}}), ShouldBeNil)

			res := make(chan error, 1)
			go func() { res <- f.push(chunk{frames: [][2]float64{{1, 1}}}) }()

			select {
			case <-res:
				So("push did not block", ShouldBeEmpty)
			case <-time.After(50 * time.Millisecond):
			}

			f.close()
			So(<-res, ShouldEqual, ErrSinkClosed)
			So(f.push(chunk{}), ShouldEqual, ErrSinkClosed)
		})
	})
}

func TestToFrames(t *testing.T) {
	Convey("Volume is applied to a copy", t, func() {
		buf := stereo(0.5, -0.5, 0.9, 0.2)
		frames := toFrames(buf, 0.5)
		So(frames, ShouldResemble, [][2]float64{{0.25, -0.25}, {0.45, 0.1}})
		So(buf.Data, ShouldResemble, []float64{0.5, -0.5, 0.9, 0.2})

		Convey("Zero volume silences everything", func() {
			So(toFrames(buf, 0), ShouldResemble, [][2]float64{{0, 0}, {0, 0}})
		})

		Convey("Mono is duplicated to both sides", func() {
			mono := &audio.FloatBuffer{Format: &audio.Format{NumChannels: 1, SampleRate: 8000}, Data: []float64{0.2, 0.4}}
			So(toFrames(mono, 1), ShouldResemble, [][2]float64{{0.2, 0.2}, {0.4, 0.4}})
		})
	})
}

func TestNullSink(t *testing.T) {
	Convey("Null sink", t, func() {
		s, err := OpenNull(SampleSpec{Rate: 48000, Channels: 2})
		So(err, ShouldBeNil)

		var slept time.Duration
		s.(*nullSink).sleep = func(d time.Duration) { slept += d }

		Convey("Should pace writes by buffer duration", func() {
			So(s.Write(stereo(make([]float64, 960*2)...), 1), ShouldBeNil)
			So(slept, ShouldEqual, 20*time.Millisecond)
		})

		Convey("Should reject buffers of another spec", func() {
			mono := &audio.FloatBuffer{Format: &audio.Format{NumChannels: 1, SampleRate: 48000}, Data: []float64{0}}
			So(errors.Is(s.Write(mono, 1), ErrSampleSpec), ShouldBeTrue)
		})

		Convey("Should fail after close", func() {
			So(s.Close(), ShouldBeNil)
			So(s.Write(stereo(0, 0), 1), ShouldEqual, ErrSinkClosed)
		})
	})

	Convey("Invalid specs are refused", t, func() {
		_, err := OpenNull(SampleSpec{Rate: 0, Channels: 2})
		So(errors.Is(err, ErrSampleSpec), ShouldBeTrue)
		_, err = OpenNull(SampleSpec{Rate: 44100, Channels: 6})
		So(errors.Is(err, ErrSampleSpec), ShouldBeTrue)
	})
}

func TestNewOpener(t *testing.T) {
	Convey("NewOpener", t, func() {
		_, err := NewOpener(Options{Device: "pulse-direct"})
		So(errors.Is(err, ErrUnknownSink), ShouldBeTrue)

		open, err := NewOpener(Options{Device: "null"})
		So(err, ShouldBeNil)
		s, err := open(SampleSpec{Rate: 44100, Channels: 2}, 1024)
		So(err, ShouldBeNil)
		So(s.Close(), ShouldBeNil)
	})
}
