package audio

import (
	"fmt"

	"github.com/charmbracelet/log"
)

type sound struct {
	name   string
	sample Sample
}

// Sounds plays one-shot samples through a pool of voices. Samples are
// decoded once per file. The pool only grows; a voice goes back to the pool
// when Update finds it has finished.
type Sounds struct {
	device  Device
	logger  *log.Logger
	samples map[string]*sound
	voices  []Voice
}

// NewSounds creates a sound player over device.
func NewSounds(device Device, logger *log.Logger) *Sounds {
	return &Sounds{
		device:  device,
		logger:  logger,
		samples: make(map[string]*sound),
	}
}

func (s *Sounds) sound(name string) (*sound, error) {
	snd, ok := s.samples[name]
	if !ok {
		snd = &sound{name: name}
		sample, err := s.device.LoadSample(name)
		if err != nil {
			s.logger.Warn("cannot load sound", "file", name, "error", err)
		} else {
			snd.sample = sample
			s.logger.Debug("sound loaded", "file", name)
		}
		s.samples[name] = snd
	}
	if snd.sample == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	return snd, nil
}

// Load decodes name so the first Play does not have to.
func (s *Sounds) Load(name string) error {
	_, err := s.sound(name)
	return err
}

// Play starts name on an idle voice, allocating one only when every voice
// is busy.
func (s *Sounds) Play(name string, gain, pan, speed float64) error {
	if !validGain(gain) || !validPan(pan) || !validSpeed(speed) {
		return fmt.Errorf("%w: gain %g pan %g speed %g", ErrOutOfRange, gain, pan, speed)
	}
	snd, err := s.sound(name)
	if err != nil {
		return err
	}

	v, reused := s.acquire()
	v.Bind(snd.sample)
	v.SetGain(DefaultGain)
	v.SetPan(DefaultPan)
	v.SetSpeed(DefaultSpeed)
	if err := v.Attach(); err != nil {
		return fmt.Errorf("audio: attach voice for %s: %w", name, err)
	}
	v.SetGain(gain)
	v.SetPan(pan)
	v.SetSpeed(speed)
	v.SetPlaying(true)

	s.logger.Debug("sound", "file", name, "gain", gain, "pan", pan, "speed", speed, "reused", reused, "voices", len(s.voices))
	return nil
}

func (s *Sounds) acquire() (Voice, bool) {
	for _, v := range s.voices {
		if !v.Attached() {
			return v, true
		}
	}
	v := s.device.NewVoice()
	s.voices = append(s.voices, v)
	return v, false
}

// Update detaches every voice that has finished playing.
func (s *Sounds) Update() {
	for _, v := range s.voices {
		if v.Attached() && !v.Playing() {
			v.Detach()
		}
	}
}

// PoolSize returns the number of voices ever allocated.
func (s *Sounds) PoolSize() int {
	return len(s.voices)
}

// Active returns the number of voices currently attached.
func (s *Sounds) Active() int {
	n := 0
	for _, v := range s.voices {
		if v.Attached() {
			n++
		}
	}
	return n
}

// Close releases every voice and forgets every sample.
func (s *Sounds) Close() {
	for _, v := range s.voices {
		if v.Attached() {
			v.Detach()
		}
		v.Close()
	}
	s.voices = nil
	clear(s.samples)
}
