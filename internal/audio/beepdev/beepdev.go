// Package beepdev plays audio through the system speaker using beep. Every
// stream and voice owns an effects chain (pause control, resampler for
// speed, volume, pan) that is rebuilt each time it is attached to the mixer.
package beepdev

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
)

// Options configures the speaker.
type Options struct {
	SampleRate int
	Buffer     time.Duration
	Quality    int // Resampling quality, 1 to 6
}

// DefaultOptions returns 44.1kHz with a 50ms buffer.
func DefaultOptions() Options {
	return Options{SampleRate: 44100, Buffer: 50 * time.Millisecond, Quality: 3}
}

// Device is an audio.Device backed by the speaker and a single mixer.
type Device struct {
	rate    beep.SampleRate
	quality int
	mixer   *beep.Mixer
	logger  *log.Logger
}

// New initializes the speaker. Only one Device may exist per process.
func New(opts Options, logger *log.Logger) (*Device, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultOptions().SampleRate
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultOptions().Buffer
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultOptions().Quality
	}

	rate := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(rate, rate.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("beepdev: cannot init speaker: %w", err)
	}

	d := &Device{
		rate:    rate,
		quality: opts.Quality,
		mixer:   &beep.Mixer{},
		logger:  logger,
	}
	speaker.Play(d.mixer)
	logger.Debug("speaker ready", "rate", opts.SampleRate, "buffer", opts.Buffer)
	return d, nil
}

// OpenStream decodes name lazily for streamed playback.
func (d *Device) OpenStream(name string) (audio.Stream, error) {
	dec, format, err := decode(name)
	if err != nil {
		return nil, err
	}
	s := &stream{
		name:   name,
		src:    &source{dec: dec},
		dec:    dec,
		chain:  d.newChain(float64(format.SampleRate) / float64(d.rate)),
		logger: d.logger,
	}
	return s, nil
}

// LoadSample decodes name fully into memory at the device rate.
func (d *Device) LoadSample(name string) (audio.Sample, error) {
	dec, format, err := decode(name)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: d.rate, NumChannels: 2, Precision: 2})
	if format.SampleRate == d.rate {
		buf.Append(dec)
	} else {
		buf.Append(beep.Resample(d.quality, format.SampleRate, d.rate, dec))
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("beepdev: cannot decode %s: %w", name, err)
	}
	return &sample{name: name, buf: buf}, nil
}

// NewVoice creates an idle voice.
func (d *Device) NewVoice() audio.Voice {
	return &voice{chain: d.newChain(1)}
}

// Close silences the mixer and shuts the speaker down.
func (d *Device) Close() error {
	speaker.Lock()
	d.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	return nil
}

func decode(name string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".ogg":
		s, format, err = vorbis.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	default:
		err = fmt.Errorf("unsupported format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("beepdev: cannot decode %s: %w", name, err)
	}
	return s, format, nil
}

// source wraps a decoder and restarts it at the end when looping.
type source struct {
	dec  beep.StreamSeekCloser
	loop bool
}

func (s *source) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) {
		sn, ok := s.dec.Stream(samples[n:])
		n += sn
		if ok && sn > 0 {
			continue
		}
		if !s.loop || s.dec.Len() == 0 {
			return n, n > 0
		}
		if err := s.dec.Seek(0); err != nil {
			return n, n > 0
		}
	}
	return n, true
}

func (s *source) Err() error { return s.dec.Err() }

// slot is what the mixer actually holds. A detached slot drains at once so
// the mixer drops it; done is set when the chain behind it ran out.
type slot struct {
	src      beep.Streamer
	detached bool
	done     bool
}

func (s *slot) Stream(samples [][2]float64) (int, bool) {
	if s.detached {
		return 0, false
	}
	n, ok := s.src.Stream(samples)
	if !ok {
		s.done = true
	}
	return n, ok
}

func (s *slot) Err() error { return s.src.Err() }

// chain holds the parameters of a stream or voice and the effects built from
// them. Callers hold the speaker lock.
type chain struct {
	mixer   *beep.Mixer
	quality int
	ratio   float64 // source rate over device rate

	gain   float64
	pan    float64
	speed  float64
	paused bool

	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	panner    *effects.Pan
	slot      *slot
}

func (d *Device) newChain(ratio float64) *chain {
	return &chain{
		mixer:   d.mixer,
		quality: d.quality,
		ratio:   ratio,
		gain:    audio.DefaultGain,
		pan:     audio.DefaultPan,
		speed:   audio.DefaultSpeed,
		paused:  true,
	}
}

func (c *chain) attach(src beep.Streamer) {
	c.ctrl = &beep.Ctrl{Streamer: src, Paused: c.paused}
	c.resampler = beep.ResampleRatio(c.quality, c.ratio*c.speed, c.ctrl)
	c.volume = &effects.Volume{Streamer: c.resampler, Base: 2}
	c.panner = &effects.Pan{Streamer: c.volume, Pan: c.pan}
	c.applyGain()

	if c.slot != nil {
		c.slot.detached = true
	}
	c.slot = &slot{src: c.panner}
	c.mixer.Add(c.slot)
}

func (c *chain) detach() {
	if c.slot != nil {
		c.slot.detached = true
		c.slot = nil
	}
}

func (c *chain) attached() bool {
	return c.slot != nil && !c.slot.detached
}

func (c *chain) playing() bool {
	return c.attached() && !c.slot.done && !c.paused
}

func (c *chain) setPlaying(p bool) {
	c.paused = !p
	if c.ctrl != nil {
		c.ctrl.Paused = c.paused
	}
}

func (c *chain) setGain(g float64) {
	c.gain = g
	c.applyGain()
}

func (c *chain) applyGain() {
	if c.volume == nil {
		return
	}
	if c.gain <= 0 {
		c.volume.Silent = true
		return
	}
	c.volume.Silent = false
	c.volume.Volume = math.Log2(c.gain)
}

func (c *chain) setPan(p float64) {
	c.pan = p
	if c.panner != nil {
		c.panner.Pan = p
	}
}

func (c *chain) setSpeed(s float64) {
	c.speed = s
	if c.resampler != nil {
		c.resampler.SetRatio(c.ratio * s)
	}
}

type stream struct {
	name   string
	src    *source
	dec    beep.StreamSeekCloser
	chain  *chain
	logger *log.Logger
}

func (s *stream) Attach() error {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.attach(s.src)
	return nil
}

func (s *stream) Detach() {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.detach()
}

func (s *stream) Attached() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return s.chain.attached()
}

func (s *stream) SetPlaying(p bool) {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.setPlaying(p)
}

func (s *stream) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return s.chain.playing()
}

// Rewind seeks to the start. A slot that already ran out is dropped so the
// next Attach builds a fresh chain.
func (s *stream) Rewind() error {
	speaker.Lock()
	defer speaker.Unlock()
	if s.chain.slot != nil && s.chain.slot.done {
		s.chain.detach()
	}
	return s.dec.Seek(0)
}

func (s *stream) SetLooping(loop bool) {
	speaker.Lock()
	defer speaker.Unlock()
	s.src.loop = loop
}

func (s *stream) SetGain(g float64) {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.setGain(g)
}

func (s *stream) SetPan(p float64) {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.setPan(p)
}

func (s *stream) SetSpeed(v float64) {
	speaker.Lock()
	defer speaker.Unlock()
	s.chain.setSpeed(v)
}

func (s *stream) Close() error {
	speaker.Lock()
	s.chain.detach()
	speaker.Unlock()
	s.logger.Debug("stream closed", "file", s.name)
	return s.dec.Close()
}

type sample struct {
	name string
	buf  *beep.Buffer
}

func (s *sample) Name() string { return s.name }

type voice struct {
	sample *sample
	chain  *chain
}

func (v *voice) Bind(s audio.Sample) {
	smp, _ := s.(*sample)
	speaker.Lock()
	defer speaker.Unlock()
	v.sample = smp
}

func (v *voice) Attach() error {
	speaker.Lock()
	defer speaker.Unlock()
	if v.sample == nil {
		return fmt.Errorf("beepdev: voice has no sample")
	}
	v.chain.attach(v.sample.buf.Streamer(0, v.sample.buf.Len()))
	return nil
}

func (v *voice) Detach() {
	speaker.Lock()
	defer speaker.Unlock()
	v.chain.detach()
}

func (v *voice) Attached() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return v.chain.attached()
}

func (v *voice) SetPlaying(p bool) {
	speaker.Lock()
	defer speaker.Unlock()
	v.chain.setPlaying(p)
}

func (v *voice) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return v.chain.playing()
}

func (v *voice) SetGain(g float64) {
	speaker.Lock()
	defer speaker.Unlock()
	v.chain.setGain(g)
}

func (v *voice) SetPan(p float64) {
	speaker.Lock()
	defer speaker.Unlock()
	v.chain.setPan(p)
}

func (v *voice) SetSpeed(s float64) {
	speaker.Lock()
	defer speaker.Unlock()
	v.chain.setSpeed(s)
}

func (v *voice) Close() {
	v.Detach()
}
