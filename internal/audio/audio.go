package audio

import "github.com/charmbracelet/log"

// System bundles the music and sound schedulers that share one device.
type System struct {
	Music  *Music
	Sounds *Sounds
	device Device
}

// NewSystem creates both schedulers over device.
func NewSystem(device Device, logger *log.Logger) *System {
	return &System{
		Music:  NewMusic(device, logger.WithPrefix("music")),
		Sounds: NewSounds(device, logger.WithPrefix("sound")),
		device: device,
	}
}

// Update runs once per simulation tick.
func (s *System) Update(time, delta float64) {
	s.Music.Update(time, delta)
	s.Sounds.Update()
}

// Close stops all playback. The device itself belongs to the caller.
func (s *System) Close() {
	s.Sounds.Close()
	s.Music.Close()
}

// Device returns the device the schedulers play on.
func (s *System) Device() Device {
	return s.device
}
