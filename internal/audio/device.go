// Package audio schedules music streams and pooled one-shot sounds on top of
// an audio Device. It owns the play/pause/stop state of every track, the
// gain/pan/speed envelopes and the grow-only voice pool; the Device only
// mixes.
package audio

import "errors"

var (
	// ErrNotLoaded is returned for a file that could not be opened or decoded.
	ErrNotLoaded = errors.New("audio: not loaded")
	// ErrInvalidTransition is returned when a state change does not apply.
	ErrInvalidTransition = errors.New("audio: invalid transition")
	// ErrOutOfRange is returned for a parameter outside its bounds.
	ErrOutOfRange = errors.New("audio: value out of range")
	// ErrNoChange is returned when a setter would leave the value as it is.
	ErrNoChange = errors.New("audio: no change")
	// ErrNoDevice is returned by devices that cannot output sound.
	ErrNoDevice = errors.New("audio: no device")
)

// Device is the mixer backend. Implementations decode files, own the output
// and create voices; they never decide when anything plays.
type Device interface {
	OpenStream(name string) (Stream, error)
	LoadSample(name string) (Sample, error)
	NewVoice() Voice
	Close() error
}

// Stream is a music stream bound to the device mixer.
type Stream interface {
	Attach() error
	Detach()
	Attached() bool

	// SetPlaying starts or pauses output. Playing reports false once a
	// non-looping stream has reached its end.
	SetPlaying(playing bool)
	Playing() bool
	Rewind() error
	SetLooping(loop bool)

	SetGain(gain float64)
	SetPan(pan float64)
	SetSpeed(speed float64)

	Close() error
}

// Sample is a fully decoded sound.
type Sample interface {
	Name() string
}

// Voice is a reusable mixer slot that plays one Sample at a time.
type Voice interface {
	Bind(s Sample)
	Attach() error
	Detach()
	Attached() bool

	SetPlaying(playing bool)
	Playing() bool

	SetGain(gain float64)
	SetPan(pan float64)
	SetSpeed(speed float64)

	Close()
}
