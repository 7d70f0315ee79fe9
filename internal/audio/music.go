package audio

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Track is one music file. Its stream is opened lazily and released on stop.
type Track struct {
	Name    string
	state   State
	looping bool
	missing bool
	stream  Stream

	gain  Envelope
	pan   Envelope
	speed Envelope

	finished bool // marked during Update, compacted after the scan
}

// State returns the playback state.
func (t *Track) State() State { return t.state }

// Looping reports whether the track repeats.
func (t *Track) Looping() bool { return t.looping }

// Music schedules streamed tracks. A track is in the playing set exactly
// when its state is Playing.
type Music struct {
	device  Device
	logger  *log.Logger
	tracks  map[string]*Track
	playing []*Track
}

// NewMusic creates a scheduler over device.
func NewMusic(device Device, logger *log.Logger) *Music {
	return &Music{
		device: device,
		logger: logger,
		tracks: make(map[string]*Track),
	}
}

// track returns the cached track for name, creating and opening it on first
// use. A file that fails to open stays cached as missing.
func (m *Music) track(name string) (*Track, error) {
	t, ok := m.tracks[name]
	if !ok {
		t = &Track{
			Name:  name,
			gain:  NewEnvelope(DefaultGain),
			pan:   NewEnvelope(DefaultPan),
			speed: NewEnvelope(DefaultSpeed),
		}
		m.tracks[name] = t
		if err := m.open(t); err != nil {
			t.missing = true
			m.logger.Warn("cannot open music", "file", name, "error", err)
		}
	}
	if t.missing {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	return t, nil
}

func (m *Music) open(t *Track) error {
	if t.stream != nil {
		return nil
	}
	s, err := m.device.OpenStream(t.Name)
	if err != nil {
		return err
	}
	s.SetPlaying(false)
	s.SetLooping(t.looping)
	s.SetGain(t.gain.Current)
	s.SetPan(t.pan.Current)
	s.SetSpeed(t.speed.Current)
	t.stream = s
	m.logger.Debug("music opened", "file", t.Name)
	return nil
}

// Load opens name without playing it. A stream released by Stop is opened
// again here, so a file that has gone away since reports ErrNotLoaded.
func (m *Music) Load(name string) error {
	t, err := m.track(name)
	if err != nil {
		return err
	}
	if err := m.open(t); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoaded, name, err)
	}
	return nil
}

// Play starts a stopped track from the beginning or continues a paused one.
func (m *Music) Play(name string) error { return m.apply(name, ActionPlay) }

// Pause holds a playing track in place.
func (m *Music) Pause(name string) error { return m.apply(name, ActionPause) }

// Resume continues a paused track.
func (m *Music) Resume(name string) error { return m.apply(name, ActionResume) }

// Stop halts a track, rewinds it and releases its stream.
func (m *Music) Stop(name string) error { return m.apply(name, ActionStop) }

func (m *Music) apply(name string, action Action) error {
	t, err := m.track(name)
	if err != nil {
		return err
	}
	tr, ok := transitions[transitionKey{t.state, action}]
	if !ok {
		return fmt.Errorf("%w: %s %s while %s", ErrInvalidTransition, action, name, t.state)
	}
	if err := tr.effect(m, t); err != nil {
		return err
	}
	m.logger.Debug("music", "action", action.String(), "file", name, "from", t.state.String(), "to", tr.to.String())
	t.state = tr.to
	return nil
}

func (m *Music) start(t *Track) error {
	if err := m.open(t); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoaded, t.Name, err)
	}
	if err := t.stream.Rewind(); err != nil {
		return fmt.Errorf("audio: rewind %s: %w", t.Name, err)
	}
	if !t.stream.Attached() {
		if err := t.stream.Attach(); err != nil {
			return fmt.Errorf("audio: attach %s: %w", t.Name, err)
		}
	}
	t.stream.SetPlaying(true)
	m.playing = append(m.playing, t)
	return nil
}

func (m *Music) unpause(t *Track) error {
	if !t.stream.Attached() {
		if err := t.stream.Attach(); err != nil {
			return fmt.Errorf("audio: attach %s: %w", t.Name, err)
		}
	}
	t.stream.SetPlaying(true)
	m.playing = append(m.playing, t)
	return nil
}

func (m *Music) pause(t *Track) error {
	t.stream.SetPlaying(false)
	m.playing = slices.DeleteFunc(m.playing, func(p *Track) bool { return p == t })
	return nil
}

func (m *Music) halt(t *Track) error {
	m.playing = slices.DeleteFunc(m.playing, func(p *Track) bool { return p == t })
	m.release(t)
	return nil
}

// release detaches, rewinds and closes the stream of t.
func (m *Music) release(t *Track) {
	if t.stream == nil {
		return
	}
	t.stream.SetPlaying(false)
	if err := t.stream.Rewind(); err != nil {
		m.logger.Debug("music rewind failed", "file", t.Name, "error", err)
	}
	if t.stream.Attached() {
		t.stream.Detach()
	}
	if err := t.stream.Close(); err != nil {
		m.logger.Debug("music close failed", "file", t.Name, "error", err)
	}
	t.stream = nil
}

// SetLooping changes whether name repeats. ErrNoChange is returned when it
// already does what was asked.
func (m *Music) SetLooping(name string, loop bool) error {
	t, err := m.track(name)
	if err != nil {
		return err
	}
	if t.looping == loop {
		return ErrNoChange
	}
	t.looping = loop
	if t.stream != nil {
		t.stream.SetLooping(loop)
	}
	return nil
}

// SetVolume ramps the gain of name to v over duration seconds.
func (m *Music) SetVolume(name string, v, duration float64) error {
	return m.setParam(name, v, duration, validGain, func(t *Track) *Envelope { return &t.gain })
}

// SetPan ramps the stereo position of name to v over duration seconds.
func (m *Music) SetPan(name string, v, duration float64) error {
	return m.setParam(name, v, duration, validPan, func(t *Track) *Envelope { return &t.pan })
}

// SetSpeed ramps the playback speed of name to v over duration seconds.
func (m *Music) SetSpeed(name string, v, duration float64) error {
	return m.setParam(name, v, duration, validSpeed, func(t *Track) *Envelope { return &t.speed })
}

func (m *Music) setParam(name string, v, duration float64, valid func(float64) bool, env func(*Track) *Envelope) error {
	t, err := m.track(name)
	if err != nil {
		return err
	}
	if !valid(v) {
		return fmt.Errorf("%w: %g", ErrOutOfRange, v)
	}
	e := env(t)
	e.Set(v, duration)
	if duration <= 0 {
		m.push(t)
	}
	return nil
}

func (m *Music) push(t *Track) {
	if t.stream == nil {
		return
	}
	t.stream.SetGain(t.gain.Current)
	t.stream.SetPan(t.pan.Current)
	t.stream.SetSpeed(t.speed.Current)
}

// Gain returns the current gain of name.
func (m *Music) Gain(name string) (float64, error) {
	t, err := m.track(name)
	if err != nil {
		return 0, err
	}
	return t.gain.Current, nil
}

// Pan returns the current pan of name.
func (m *Music) Pan(name string) (float64, error) {
	t, err := m.track(name)
	if err != nil {
		return 0, err
	}
	return t.pan.Current, nil
}

// Speed returns the current speed of name.
func (m *Music) Speed(name string) (float64, error) {
	t, err := m.track(name)
	if err != nil {
		return 0, err
	}
	return t.speed.Current, nil
}

// State returns the state of name. Unknown or missing files are Stopped.
func (m *Music) State(name string) State {
	if t, ok := m.tracks[name]; ok {
		return t.state
	}
	return Stopped
}

// Playing returns the tracks currently playing, in start order.
func (m *Music) Playing() []string {
	names := make([]string, len(m.playing))
	for i, t := range m.playing {
		names[i] = t.Name
	}
	return names
}

// Update retires finished tracks, then advances the envelopes of the rest.
// Finished tracks are marked during the scan and removed after it.
func (m *Music) Update(time, delta float64) {
	marked := false
	for _, t := range m.playing {
		if !t.looping && !t.stream.Playing() {
			t.finished = true
			marked = true
		}
	}
	if marked {
		m.playing = slices.DeleteFunc(m.playing, func(t *Track) bool {
			if !t.finished {
				return false
			}
			t.finished = false
			t.state = Stopped
			m.release(t)
			m.logger.Debug("music finished", "file", t.Name)
			return true
		})
	}

	for _, t := range m.playing {
		changed := t.gain.Step(delta)
		changed = t.pan.Step(delta) || changed
		changed = t.speed.Step(delta) || changed
		if changed {
			m.push(t)
		}
	}
}

// Close stops every track and releases its stream.
func (m *Music) Close() {
	for _, t := range m.tracks {
		m.release(t)
		t.state = Stopped
	}
	m.playing = nil
	clear(m.tracks)
}
