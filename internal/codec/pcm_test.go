package codec

import (
	"errors"
	"io"
	"math"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestOpen(t *testing.T) {
	Convey("Open", t, func() {
		fsys := afero.NewMemMapFs()

		Convey("Should reject unknown extensions", func() {
			So(afero.WriteFile(fsys, "/music/a.txt", []byte("hi"), 0644), ShouldBeNil)
			_, err := Open(fsys, "/music/a.txt")
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("Should report missing files", func() {
			_, _, err := Probe(fsys, "/music/missing.mp3")
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("Should fail on a file that is not audio", func() {
			So(afero.WriteFile(fsys, "/music/broken.wav", []byte("definitely not riff"), 0644), ShouldBeNil)
			_, err := Open(fsys, "/music/broken.wav")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPCMReader(t *testing.T) {
	Convey("WAV through the PCM reader", t, func() {
		fsys := afero.NewMemMapFs()
		const rate, frames = 44100, 44100 * 2
		So(writeWav(fsys, "/music/a.wav", rate, 2, frames), ShouldBeNil)

		r, d, err := Probe(fsys, "/music/a.wav")
		So(err, ShouldBeNil)
		defer r.Close()

		Convey("Should describe the track", func() {
			tr := r.Track()
			So(tr.Codec, ShouldEqual, "wav")
			So(tr.SampleRate, ShouldEqual, rate)
			So(tr.Channels, ShouldEqual, 2)
			So(tr.NFrames, ShouldEqual, frames)
			So(tr.TimeBase, ShouldResemble, NewTimeBase(rate))
		})

		Convey("Should cut contiguous packets until EOF", func() {
			var next, total uint64
			for {
				p, err := r.NextPacket()
				if err == io.EOF {
					break
				}
				So(err, ShouldBeNil)
				So(p.TS, ShouldEqual, next)
				next = p.TS + p.Dur
				total += p.Dur
			}
			So(total, ShouldEqual, frames)

			_, err := r.NextPacket()
			So(err, ShouldEqual, io.EOF)
		})

		Convey("Should decode packets into interleaved buffers", func() {
			p, err := r.NextPacket()
			So(err, ShouldBeNil)
			So(p.Dur, ShouldEqual, 882)

			buf, err := d.Decode(p)
			So(err, ShouldBeNil)
			So(buf.Format.NumChannels, ShouldEqual, 2)
			So(buf.Format.SampleRate, ShouldEqual, rate)
			So(len(buf.Data), ShouldEqual, 882*2)
			So(buf.Data[2], ShouldEqual, buf.Data[3])
		})

		Convey("Should seek to the exact sample", func() {
			So(r.Seek(SeekAccurate, FromMillis(500)), ShouldBeNil)
			p, err := r.NextPacket()
			So(err, ShouldBeNil)
			So(p.TS, ShouldEqual, 22050)
			So(ToMillis(r.Track().TimeBase.CalcTime(p.TS)), ShouldEqual, 500)
		})

		Convey("Should refuse to seek past the end", func() {
			err := r.Seek(SeekAccurate, FromMillis(5000))
			So(errors.Is(err, ErrSeekOutOfRange), ShouldBeTrue)
		})

		Convey("Should report the duration without decoding", func() {
			ms, err := Duration(fsys, "/music/a.wav")
			So(err, ShouldBeNil)
			So(ms, ShouldEqual, 2000)
		})
	})

	Convey("Mono WAV", t, func() {
		fsys := afero.NewMemMapFs()
		So(writeWav(fsys, "/music/mono.wav", 22050, 1, 2205), ShouldBeNil)

		r, d, err := Probe(fsys, "/music/mono.wav")
		So(err, ShouldBeNil)
		defer r.Close()

		p, err := r.NextPacket()
		So(err, ShouldBeNil)
		buf, err := d.Decode(p)
		So(err, ShouldBeNil)
		So(buf.Format.NumChannels, ShouldEqual, 1)
		So(len(buf.Data), ShouldEqual, int(p.Dur))
	})
}

func TestPCMDecoder(t *testing.T) {
	Convey("PCM decoder", t, func() {
		d := newPCMDecoder(Track{SampleRate: 8000, Channels: 2})

		Convey("Should flag non-finite samples as recoverable", func() {
			_, err := d.Decode(Packet{TS: 7, Dur: 1, pcm: [][2]float64{{math.NaN(), 0}}})
			So(err, ShouldNotBeNil)
			So(IsRecoverable(err), ShouldBeTrue)
		})

		Convey("Should flag empty packets as recoverable", func() {
			_, err := d.Decode(Packet{TS: 7})
			So(IsRecoverable(err), ShouldBeTrue)
		})

		Convey("Should drop trimmed leading frames", func() {
			buf, err := d.Decode(Packet{Dur: 2, trimStart: 1, pcm: [][2]float64{{0.1, 0.1}, {0.2, 0.3}}})
			So(err, ShouldBeNil)
			So(buf.Data, ShouldResemble, []float64{0.2, 0.3})
		})

		Convey("Should not treat plain errors as recoverable", func() {
			So(IsRecoverable(io.ErrUnexpectedEOF), ShouldBeFalse)
		})
	})
}
