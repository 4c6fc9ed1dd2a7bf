package player

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"implayer/internal/codec"
	"implayer/internal/output"

	"github.com/go-audio/audio"
)

const (
	fakeRate  = 48000
	fakeFrame = 960 // 20ms
	fakeLevel = 0.5
)

// fakeTrack is a reader producing fakeFrame sized packets.
type fakeTrack struct {
	mu        sync.Mutex
	packets   int
	next      int
	reads     []uint64
	seeks     int
	resets    int
	closed    bool
	readErrAt int
	readErr   error
	decodeErr map[int]error
}

func newFakeTrack(packets int) *fakeTrack {
	return &fakeTrack{packets: packets, readErrAt: -1, decodeErr: map[int]error{}}
}

func (t *fakeTrack) Track() codec.Track {
	return codec.Track{
		Codec:      "fake",
		SampleRate: fakeRate,
		Channels:   2,
		TimeBase:   codec.NewTimeBase(fakeRate),
		NFrames:    uint64(t.packets * fakeFrame),
	}
}

func (t *fakeTrack) NextPacket() (codec.Packet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.next == t.readErrAt {
		return codec.Packet{}, t.readErr
	}
	if t.next >= t.packets {
		return codec.Packet{}, io.EOF
	}
	ts := uint64(t.next * fakeFrame)
	t.next++
	t.reads = append(t.reads, ts)
	return codec.Packet{TS: ts, Dur: fakeFrame}, nil
}

func (t *fakeTrack) Seek(_ codec.SeekMode, to codec.Time) error {
	ts := codec.NewTimeBase(fakeRate).CalcTimestamp(to)
	t.mu.Lock()
	defer t.mu.Unlock()
	if ts > uint64(t.packets*fakeFrame) {
		return codec.ErrSeekOutOfRange
	}
	t.seeks++
	t.next = int(ts / fakeFrame)
	return nil
}

func (t *fakeTrack) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

func (t *fakeTrack) Decode(p codec.Packet) (*audio.FloatBuffer, error) {
	t.mu.Lock()
	err := t.decodeErr[int(p.TS/fakeFrame)]
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}

	data := make([]float64, fakeFrame*2)
	for i := range data {
		data[i] = fakeLevel
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: fakeRate},
		Data:   data,
	}, nil
}

func (t *fakeTrack) Reset() {
	t.mu.Lock()
	t.resets++
	t.mu.Unlock()
}

func (t *fakeTrack) Reads() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]uint64(nil), t.reads...)
}

func (t *fakeTrack) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *fakeTrack) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

type fakeLibrary map[string]*fakeTrack

func (l fakeLibrary) Source(path string) (codec.Reader, codec.Decoder, error) {
	t, ok := l[path]
	if !ok {
		return nil, nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return t, t, nil
}

// fakeOutput records every sink it opens.
type fakeOutput struct {
	mu      sync.Mutex
	delay   time.Duration
	failAt  int // write index that fails, -1 for never
	openErr error

	opens   int
	writes  int
	volumes []float32
	samples []float64
	flushed bool
	closed  bool
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{failAt: -1}
}

func (o *fakeOutput) Open(spec output.SampleSpec, frames int) (output.Sink, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.openErr != nil {
		return nil, o.openErr
	}
	if spec.Rate != fakeRate || spec.Channels != 2 || frames != fakeFrame {
		return nil, fmt.Errorf("unexpected sink request %s %d", spec, frames)
	}
	o.opens++
	o.flushed = false
	o.closed = false
	return &fakeSink{out: o}, nil
}

func (o *fakeOutput) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens
}

func (o *fakeOutput) Writes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

func (o *fakeOutput) Volumes() []float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]float32(nil), o.volumes...)
}

func (o *fakeOutput) Samples() []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]float64(nil), o.samples...)
}

func (o *fakeOutput) Flushed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flushed
}

func (o *fakeOutput) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

var errDeviceGone = errors.New("device gone")

type fakeSink struct {
	out *fakeOutput
}

func (s *fakeSink) Write(buf *audio.FloatBuffer, volume float32) error {
	o := s.out
	o.mu.Lock()
	if o.failAt == o.writes {
		o.mu.Unlock()
		return errDeviceGone
	}
	o.writes++
	o.volumes = append(o.volumes, volume)
	o.samples = append(o.samples, buf.Data...)
	delay := o.delay
	o.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return nil
}

func (s *fakeSink) Flush() error {
	s.out.mu.Lock()
	s.out.flushed = true
	s.out.mu.Unlock()
	return nil
}

func (s *fakeSink) Close() error {
	s.out.mu.Lock()
	s.out.closed = true
	s.out.mu.Unlock()
	return nil
}
