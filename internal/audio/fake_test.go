package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// fakeDevice records every stream and voice it hands out. Only names in
// files can be opened.
type fakeDevice struct {
	files   map[string]bool
	streams []*fakeStream
	voices  []*fakeVoice
	opened  map[string]int
	decoded map[string]int
}

func newFakeDevice(files ...string) *fakeDevice {
	d := &fakeDevice{
		files:   make(map[string]bool),
		opened:  make(map[string]int),
		decoded: make(map[string]int),
	}
	for _, f := range files {
		d.files[f] = true
	}
	return d
}

func (d *fakeDevice) OpenStream(name string) (Stream, error) {
	if !d.files[name] {
		return nil, fmt.Errorf("open %s: %w", name, os.ErrNotExist)
	}
	d.opened[name]++
	s := &fakeStream{name: name, gain: -1, pan: -2, speed: -1}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) LoadSample(name string) (Sample, error) {
	if !d.files[name] {
		return nil, fmt.Errorf("open %s: %w", name, os.ErrNotExist)
	}
	d.decoded[name]++
	return nullSample(name), nil
}

func (d *fakeDevice) NewVoice() Voice {
	v := &fakeVoice{}
	d.voices = append(d.voices, v)
	return v
}

func (d *fakeDevice) Close() error { return nil }

// last returns the most recently opened stream.
func (d *fakeDevice) last() *fakeStream {
	return d.streams[len(d.streams)-1]
}

type fakeStream struct {
	name     string
	attached bool
	playing  bool
	looping  bool
	closed   bool
	rewinds  int
	gain     float64
	pan      float64
	speed    float64
}

func (s *fakeStream) Attach() error { s.attached = true; return nil }
func (s *fakeStream) Detach() { s.attached = false }
func (s *fakeStream) Attached() bool { return s.attached }
func (s *fakeStream) SetPlaying(p bool) { s.playing = p }
func (s *fakeStream) Playing() bool { return s.playing }
func (s *fakeStream) Rewind() error { s.rewinds++; return nil }
func (s *fakeStream) SetLooping(l bool) { s.looping = l }
func (s *fakeStream) SetGain(v float64) { s.gain = v }
func (s *fakeStream) SetPan(v float64) { s.pan = v }
func (s *fakeStream) SetSpeed(v float64) { s.speed = v }
func (s *fakeStream) Close() error { s.closed = true; return nil }

// finish simulates the device reaching the end of the file.
func (s *fakeStream) finish() { s.playing = false }

type fakeVoice struct {
	sample   Sample
	attached bool
	playing  bool
	gain     float64
	pan      float64
	speed    float64
	binds    int
}

func (v *fakeVoice) Bind(s Sample) { v.sample = s; v.binds++ }
func (v *fakeVoice) Attach() error { v.attached = true; return nil }
func (v *fakeVoice) Detach() { v.attached = false; v.playing = false }
func (v *fakeVoice) Attached() bool { return v.attached }
func (v *fakeVoice) SetPlaying(p bool) { v.playing = p }
func (v *fakeVoice) Playing() bool { return v.playing }
func (v *fakeVoice) SetGain(g float64) { v.gain = g }
func (v *fakeVoice) SetPan(p float64) { v.pan = p }
func (v *fakeVoice) SetSpeed(s float64) { v.speed = s }
func (v *fakeVoice) Close() {}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFile(name string) error {
	return os.WriteFile(name, nil, 0o644)
}
