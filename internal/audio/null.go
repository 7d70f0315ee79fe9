package audio

import (
	"fmt"
	"os"
)

// NullDevice accepts every call and outputs nothing. Files are still
// checked for existence so scripts see the same load failures as with a
// real device. Streams play until stopped; voices finish immediately.
type NullDevice struct{}

func (NullDevice) OpenStream(name string) (Stream, error) {
	if err := exists(name); err != nil {
		return nil, err
	}
	return &nullStream{}, nil
}

func (NullDevice) LoadSample(name string) (Sample, error) {
	if err := exists(name); err != nil {
		return nil, err
	}
	return nullSample(name), nil
}

func (NullDevice) NewVoice() Voice { return &nullVoice{} }

func (NullDevice) Close() error { return nil }

func exists(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("audio: %s is a directory", name)
	}
	return nil
}

type nullSample string

func (s nullSample) Name() string { return string(s) }

type nullStream struct {
	attached bool
	playing  bool
}

func (s *nullStream) Attach() error { s.attached = true; return nil }
func (s *nullStream) Detach() { s.attached = false }
func (s *nullStream) Attached() bool { return s.attached }
func (s *nullStream) SetPlaying(p bool) { s.playing = p }
func (s *nullStream) Playing() bool { return s.playing }
func (s *nullStream) Rewind() error { return nil }
func (s *nullStream) SetLooping(bool) {}
func (s *nullStream) SetGain(float64) {}
func (s *nullStream) SetPan(float64) {}
func (s *nullStream) SetSpeed(float64) {}
func (s *nullStream) Close() error { return nil }

type nullVoice struct {
	attached bool
}

func (v *nullVoice) Bind(Sample) {}
func (v *nullVoice) Attach() error { v.attached = true; return nil }
func (v *nullVoice) Detach() { v.attached = false }
func (v *nullVoice) Attached() bool { return v.attached }
func (v *nullVoice) SetPlaying(bool) {}
func (v *nullVoice) Playing() bool { return false }
func (v *nullVoice) SetGain(float64) {}
func (v *nullVoice) SetPan(float64) {}
func (v *nullVoice) SetSpeed(float64) {}
func (v *nullVoice) Close() {}
